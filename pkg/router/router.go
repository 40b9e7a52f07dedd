package router

import (
	"net/http"
	"net/url"
	"path"
	"time"

	docs "github.com/warped-finance/backend/api"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/pkg/controllers"
	"github.com/warped-finance/backend/pkg/httputil"
	"github.com/warped-finance/backend/pkg/models"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

var errMethodNotAllowed = httputil.HTTPError{Error: "this HTTP method is not allowed for the endpoint you called"}

// Options are the settings of the router that do not depend on the request.
type Options struct {
	CORSAllowOrigins []string // CORS is disabled when empty
	EnablePprof      bool
}

// Config sets up the engine with all middlewares.
//
// The returned teardown function unregisters the metrics and must be called
// when the engine is not used anymore.
func Config(baseURL *url.URL, opts Options) (*gin.Engine, func(), error) {
	err := registerMetrics()
	if err != nil {
		return nil, func() {}, err
	}

	teardown := func() {
		if !unregisterMetrics() {
			log.Error().Msg("could not unregister the Prometheus metrics")
		}
	}

	// Route registration is not logged, it clutters the test output
	gin.DebugPrintRouteFunc = func(string, string, string, int) {}

	r := gin.New()

	// Client IPs are not used, neither X-Forwarded-For nor any proxy is trusted
	r.ForwardedByClientIP = false
	_ = r.SetTrustedProxies(nil)

	// 405 for paths that have handlers, but not for the method used
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errMethodNotAllowed)
	})

	r.Use(
		gin.Recovery(),
		requestid.New(),
		BaseURLMiddleware(baseURL),
		MetricsMiddleware(),
		accessLog(baseURL.Path),
	)

	if len(opts.CORSAllowOrigins) > 0 {
		log.Debug().Strs("origins", opts.CORSAllowOrigins).Msg("CORS")
		r.Use(allowOrigins(opts.CORSAllowOrigins))
	}

	describeAPI(baseURL)
	log.Info().Str("version", version).Str("url", baseURL.String()).Msg("Router")

	return r, teardown, nil
}

// accessLog logs every request with its request ID. Probes of the health
// and metrics endpoints are not logged.
func accessLog(basePath string) gin.HandlerFunc {
	return logger.SetLogger(
		logger.WithUTC(true),
		logger.WithSkipPath([]string{
			path.Join("/", basePath, "healthz"),
			path.Join("/", basePath, "metrics"),
		}),
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("route", route(c)).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Logger()
		}))
}

// allowOrigins enables CORS for the origins. The UI sends JSON bodies
// and needs all methods of the API.
func allowOrigins(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodOptions, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// describeAPI sets the values of the API documentation that depend on
// where the API is served.
func describeAPI(baseURL *url.URL) {
	docs.SwaggerInfo.Host = baseURL.Host
	docs.SwaggerInfo.BasePath = baseURL.Path
	docs.SwaggerInfo.Title = "Warped Finance"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for Warped Finance, a personal finance tracker for transactions imported from Mint and EveryDollar."
}

// AttachRoutes attaches the API routes to the router group that is passed in.
// Separating this from Config() allows us to attach it to different
// paths for different use cases.
func AttachRoutes(group *gin.RouterGroup, opts Options) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)
	group.GET("/healthz", GetHealthz)
	group.OPTIONS("/healthz", OptionsHealthz)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	if opts.EnablePprof {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	controllers.RegisterGroupRoutes(group.Group("/groups"))
	controllers.RegisterCategoryRoutes(group.Group("/categories"))
	controllers.RegisterTagRoutes(group.Group("/tags"))
	controllers.RegisterTransactionRoutes(group.Group("/transactions"))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs         string `json:"docs" example:"https://example.com/api/docs/index.html"`         // Swagger API documentation
	Healthz      string `json:"healthz" example:"https://example.com/api/healthz"`              // Healthz endpoint
	Version      string `json:"version" example:"https://example.com/api/version"`              // Endpoint returning the version of the backend
	Metrics      string `json:"metrics" example:"https://example.com/api/metrics"`              // Endpoint returning Prometheus metrics
	Groups       string `json:"groups" example:"https://example.com/api/groups"`                // URL of group list endpoint
	Categories   string `json:"categories" example:"https://example.com/api/categories"`        // URL of category list endpoint
	Tags         string `json:"tags" example:"https://example.com/api/tags"`                    // URL of tag list endpoint
	Transactions string `json:"transactions" example:"https://example.com/api/transactions"`    // URL of transaction list endpoint
}

// GetRoot returns the link list for the API root
//
//	@Summary		API root
//	@Description	Entrypoint for the API, listing all endpoints
//	@Tags			General
//	@Success		200	{object}	RootResponse
//	@Router			/ [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(BaseURLKey)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:         url + "/docs/index.html",
			Healthz:      url + "/healthz",
			Version:      url + "/version",
			Metrics:      url + "/metrics",
			Groups:       url + "/groups",
			Categories:   url + "/categories",
			Tags:         url + "/tags",
			Transactions: url + "/transactions",
		},
	})
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the backend
}

// GetVersion returns the API version object
//
//	@Summary		API version
//	@Description	Returns the software version of the API
//	@Tags			General
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// OptionsVersion returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object}	httputil.HTTPError
// @Router			/healthz [get]
func GetHealthz(c *gin.Context) {
	sqlDB, err := models.DB.DB()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	err = sqlDB.Ping()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func OptionsHealthz(c *gin.Context) {
	httputil.OptionsGet(c)
}
