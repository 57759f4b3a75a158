package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Abbrahem/GIVENTO/internal/cache"
	"github.com/Abbrahem/GIVENTO/internal/models"
)

type ProductHandler struct {
	DB    *gorm.DB
	Cache *cache.ProductCache
}

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	OriginalPrice float64  `json:"originalPrice" binding:"required,gt=0"`
	SalePrice     float64  `json:"salePrice" binding:"required,gt=0"`
	Category      string   `json:"category" binding:"required"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	Images        []string `json:"images"`
}

type UpdateProductRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	OriginalPrice *float64  `json:"originalPrice"`
	SalePrice     *float64  `json:"salePrice"`
	Category      *string   `json:"category"`
	Sizes         *[]string `json:"sizes"`
	Colors        *[]string `json:"colors"`
	Images        *[]string `json:"images"`
}

func checkImages(images []string) string {
	if len(images) == 0 {
		return "at least one image is required"
	}
	for _, img := range images {
		if !validImageRef(img) {
			return "images must be base64 data URIs or http(s) URLs"
		}
	}
	return ""
}

// POST /api/products (admin)
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := checkImages(req.Images); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		OriginalPrice: req.OriginalPrice,
		SalePrice:     req.SalePrice,
		Category:      req.Category,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Images:        req.Images,
		IsAvailable:   true,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, product)
}

// GET /api/products
//
// Newest first is the only ordering guarantee. The Redis cache only covers
// the unfiltered listing, which is what the storefront home page hits.
func (h *ProductHandler) List(c *gin.Context) {
	category := c.Query("category")

	if category == "" {
		if products, ok := h.Cache.GetList(c.Request.Context()); ok {
			c.JSON(http.StatusOK, products)
			return
		}
	}

	query := h.DB.Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}

	if category == "" {
		h.Cache.SetList(c.Request.Context(), products)
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/products/latest
func (h *ProductHandler) Latest(c *gin.Context) {
	var product models.Product
	if err := h.DB.Order("created_at DESC").First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no products yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch latest product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// PUT /api/products/:id (admin)
//
// Partial update: absent fields keep their stored value.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = *req.OriginalPrice
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Sizes != nil {
		product.Sizes = *req.Sizes
	}
	if req.Colors != nil {
		product.Colors = *req.Colors
	}
	if req.Images != nil {
		if msg := checkImages(*req.Images); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		product.Images = *req.Images
	}

	if err := h.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, product)
}

// PUT /api/products/:id/toggle (admin)
func (h *ProductHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}

	product.IsAvailable = !product.IsAvailable
	if err := h.DB.Model(&product).Update("is_available", product.IsAvailable).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle product"})
		return
	}

	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, product)
}

// DELETE /api/products/:id (admin)
//
// Images live inline on the row, so deleting the product removes its stored
// images with it.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
