package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// Allow answers an OPTIONS request with an empty response that lists the
// methods in the "allow" header.
func Allow(c *gin.Context, methods ...string) {
	c.Header("allow", strings.Join(append([]string{http.MethodOptions}, methods...), ", "))
	c.Render(http.StatusNoContent, render.JSON{})
}

func OptionsGet(c *gin.Context) {
	Allow(c, http.MethodGet)
}

func OptionsPost(c *gin.Context) {
	Allow(c, http.MethodPost)
}

func OptionsPut(c *gin.Context) {
	Allow(c, http.MethodPut)
}

func OptionsDelete(c *gin.Context) {
	Allow(c, http.MethodDelete)
}

func OptionsGetPost(c *gin.Context) {
	Allow(c, http.MethodGet, http.MethodPost)
}

func OptionsGetPut(c *gin.Context) {
	Allow(c, http.MethodGet, http.MethodPut)
}
