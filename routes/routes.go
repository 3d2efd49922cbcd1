package routes

import (
	"net/http"
	"time"

	"product-catalog/controllers"
	"product-catalog/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the catalog endpoints. The events stream is long
// lived and so sits outside the request timeout.
func RegisterRoutes(r *gin.Engine, pc *controllers.ProductController, cc *controllers.CategoryController, ec *controllers.EventsController, timeout time.Duration) {
	r.GET("/products/events", ec.Stream)

	api := r.Group("/", middleware.Timeout(timeout))
	{
		api.GET("/products", pc.GetProducts)
		api.GET("/products/:id", pc.GetProductByID)
		api.POST("/products", pc.CreateProduct)
		api.PUT("/products/:id", pc.UpdateProduct)
		api.PATCH("/products/:id", pc.UpdateProduct)
		api.DELETE("/products/:id", pc.DeleteProduct)
		api.GET("/categories", cc.GetCategories)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
}
