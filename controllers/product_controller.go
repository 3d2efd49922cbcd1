package controllers

import (
	"net/http"

	"product-catalog/apperrors"
	"product-catalog/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ProductController serves the catalog over HTTP.
type ProductController struct {
	service   ProductServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewProductController(s ProductServiceAPI, rdb *redis.Client) *ProductController {
	return &ProductController{
		service:   s,
		cache:     NewCacheManager(rdb),
		validator: NewRequestValidator(),
	}
}

// GetProducts returns one page of the filtered catalog.
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()
	pagination := ctrl.validator.ParsePagination(c)
	filters := ctrl.validator.ParseFilters(c)

	cached, version, ok := ctrl.cache.GetProductList(ctx, filters, pagination)
	if ok {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, cached)
		return
	}

	resp, err := ctrl.service.QueryProducts(ctx, &filters, &pagination)
	if err != nil {
		handleQueryError(c, err)
		return
	}

	logger.Info(c, "Products fetched",
		zap.Int("page", resp.CurrentPage),
		zap.Int("limit", pagination.Limit),
		zap.Int("total", resp.TotalCount),
		zap.Int("totalPages", resp.TotalPages),
	)

	ctrl.cache.SetProductListAsync(version, filters, pagination, resp)
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, resp)
}

// GetProductByID returns a single product.
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	cached, version, ok := ctrl.cache.GetProduct(c.Request.Context(), id)
	if ok {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, cached)
		return
	}

	product, found := ctrl.service.GetProduct(c.Request.Context(), id)
	if !found {
		_ = c.Error(apperrors.NotFound("Product not found"))
		return
	}

	ctrl.cache.SetProductAsync(version, id, product)
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product from a JSON body.
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	draft, err := ctrl.validator.ParseDraft(c)
	if err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid product", err))
		return
	}

	id, err := ctrl.service.AddProduct(c.Request.Context(), draft)
	if err != nil {
		handleMutationError(c, err, "Failed to create product")
		return
	}

	ctrl.cache.InvalidateProduct(c.Request.Context(), id)
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "id": id})
}

// UpdateProduct applies a partial update. PUT and PATCH behave the same.
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	patch, err := ctrl.validator.ParsePatch(c)
	if err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid update", err))
		return
	}

	ok, err := ctrl.service.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		handleMutationError(c, err, "Failed to update product")
		return
	}
	if !ok {
		_ = c.Error(apperrors.NotFound("Product not found"))
		return
	}

	ctrl.cache.InvalidateProduct(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DeleteProduct removes a product.
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	ok, err := ctrl.service.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		handleMutationError(c, err, "Failed to delete product")
		return
	}
	if !ok {
		_ = c.Error(apperrors.NotFound("Product not found"))
		return
	}

	ctrl.cache.InvalidateProduct(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
