// internal/app/router.go
package app

import (
	"net/http"

	"salespipe-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware(s.logger))
	r.Use(middleware.LoggingMiddleware(s.logger))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	customers := api.Group("/customers")
	{
		customers.POST("/search", s.customerHandler.SearchCustomers)
		customers.POST("", s.customerHandler.CreateCustomer)
		customers.PUT("/:id", s.customerHandler.UpdateCustomer)
		customers.GET("/stats", s.customerHandler.GetPipelineMetrics)
		customers.POST("/import", s.customerHandler.ImportCustomers)
		customers.GET("/import/template", s.customerHandler.DownloadTemplate)
	}

	activities := api.Group("/activities")
	{
		activities.POST("/search", s.activityHandler.SearchActivities)
		activities.POST("", s.activityHandler.CreateActivity)
	}

	return r
}
