package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warped-finance/backend/pkg/httputil"
	"github.com/warped-finance/backend/pkg/models"
)

// RegisterGroupRoutes registers the routes for groups with
// the RouterGroup that is passed.
func RegisterGroupRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsGroupList)
	r.GET("", GetGroups)

	r.OPTIONS("/groups-and-categories", OptionsGroupList)
	r.GET("/groups-and-categories", GetGroupsWithCategories)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Groups
// @Success		204
// @Router			/groups [options]
func OptionsGroupList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get groups
// @Description	Returns all groups ordered by their ID
// @Tags			Groups
// @Produce		json
// @Success		200	{object}	GroupListResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/groups [get]
func GetGroups(c *gin.Context) {
	groups, err := models.Groups(models.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, GroupListResponse{Data: groups})
}

// @Summary		Get groups with categories
// @Description	Returns all groups with the names of their categories. Groups without categories are included.
// @Tags			Groups
// @Produce		json
// @Success		200	{object}	GroupCategoriesResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/groups/groups-and-categories [get]
func GetGroupsWithCategories(c *gin.Context) {
	groups, err := models.GroupsWithCategories(models.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, GroupCategoriesResponse{Data: groups})
}
