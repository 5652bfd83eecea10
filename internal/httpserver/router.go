package httpserver

import (
	"io/fs"
	"log"
	"net/http"

	customersvc "customer-map/internal/service/customer"
	"customer-map/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps bundles everything the routes need.
type Deps struct {
	CustomerSvc *customersvc.Service
	Geocoder    customersvc.Geocoder
}

// buildRouter wires routes for the API and the embedded map UI.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &customerHandler{svc: deps.CustomerSvc, logger: logger}
	api := router.Group("/api")
	api.GET("/customers", h.list)
	api.GET("/customers/search", h.search)
	api.GET("/customers/:id", h.get)
	api.POST("/customers", h.create)
	api.POST("/customers/geocoded", h.createGeocoded)
	api.PUT("/customers/:id", h.update)
	api.DELETE("/customers/:id", h.remove)
	api.GET("/geocode", geocodeHandler(deps.Geocoder, logger))

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}
	router.StaticFS("/static", http.FS(static))
	router.GET("/", func(c *gin.Context) {
		// http.FileServer redirects explicit index.html requests, so serve
		// the directory root instead.
		c.FileFromFS("/", http.FS(static))
	})

	return router, nil
}
