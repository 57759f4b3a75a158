package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abbrahem/GIVENTO/internal/auth"
	"github.com/Abbrahem/GIVENTO/internal/handlers"
	"github.com/Abbrahem/GIVENTO/internal/models"
)

func TestCreateProductHandler(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Successfully creates a product", func(t *testing.T) {
		reqBody := handlers.CreateProductRequest{
			Name:          "Oversized Tee",
			Description:   "Heavy cotton oversized t-shirt",
			OriginalPrice: 450,
			SalePrice:     299,
			Category:      "t-shirts",
			Sizes:         []string{"M", "L", "XL"},
			Colors:        []string{"black", "white"},
			Images:        []string{"data:image/png;base64,aGVsbG8="},
		}
		recorder := env.do(http.MethodPost, "/api/products", env.token, reqBody)

		assert.Equal(t, http.StatusCreated, recorder.Code)

		var created models.Product
		decodeBody(t, recorder, &created)
		assert.Greater(t, created.ID, uint(0))
		assert.Equal(t, "Oversized Tee", created.Name)
		assert.Equal(t, 299.0, created.SalePrice)
		assert.Equal(t, []string{"M", "L", "XL"}, []string(created.Sizes))
		assert.True(t, created.IsAvailable)

		var stored models.Product
		require.NoError(t, env.db.First(&stored, created.ID).Error)
		assert.Equal(t, "Oversized Tee", stored.Name)
		assert.Equal(t, "t-shirts", stored.Category)
		assert.Equal(t, []string{"data:image/png;base64,aGVsbG8="}, []string(stored.Images))
	})

	t.Run("Returns 400 when no images are provided", func(t *testing.T) {
		reqBody := handlers.CreateProductRequest{
			Name:          "No Image Product",
			Description:   "missing images",
			OriginalPrice: 100,
			SalePrice:     80,
			Category:      "t-shirts",
		}
		recorder := env.do(http.MethodPost, "/api/products", env.token, reqBody)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		var response map[string]string
		decodeBody(t, recorder, &response)
		assert.Equal(t, "at least one image is required", response["error"])

		var count int64
		env.db.Model(&models.Product{}).Where("name = ?", "No Image Product").Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Returns 400 for an image that is neither data URI nor URL", func(t *testing.T) {
		reqBody := handlers.CreateProductRequest{
			Name:          "Bad Image Product",
			Description:   "bad image ref",
			OriginalPrice: 100,
			SalePrice:     80,
			Category:      "t-shirts",
			Images:        []string{"not-an-image"},
		}
		recorder := env.do(http.MethodPost, "/api/products", env.token, reqBody)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		var response map[string]string
		decodeBody(t, recorder, &response)
		assert.Equal(t, "images must be base64 data URIs or http(s) URLs", response["error"])
	})

	t.Run("Returns 400 when required scalar fields are missing", func(t *testing.T) {
		reqBody := map[string]interface{}{
			"salePrice": 100.0,
			"images":    []string{"data:image/png;base64,aGVsbG8="},
		}
		recorder := env.do(http.MethodPost, "/api/products", env.token, reqBody)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		var response map[string]string
		decodeBody(t, recorder, &response)
		assert.Contains(t, response["error"], "Name")
	})

	t.Run("Returns 401 without a token", func(t *testing.T) {
		recorder := env.do(http.MethodPost, "/api/products", "", handlers.CreateProductRequest{})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var response map[string]string
		decodeBody(t, recorder, &response)
		assert.Equal(t, "token_missing", response["code"])
	})

	t.Run("Returns 401 with code token_invalid for a tampered token", func(t *testing.T) {
		recorder := env.do(http.MethodPost, "/api/products", env.token+"x", handlers.CreateProductRequest{})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var response map[string]string
		decodeBody(t, recorder, &response)
		assert.Equal(t, "token_invalid", response["code"])
	})

	t.Run("Returns 401 with code token_expired for an expired token", func(t *testing.T) {
		expiredSvc := auth.NewService("test-secret", -time.Hour)
		expiredToken, err := expiredSvc.IssueToken(env.admin)
		require.NoError(t, err)

		recorder := env.do(http.MethodPost, "/api/products", expiredToken, handlers.CreateProductRequest{})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var response map[string]string
		decodeBody(t, recorder, &response)
		assert.Equal(t, "token_expired", response["code"])
	})

	t.Run("Returns 403 for a valid token without the admin claim", func(t *testing.T) {
		shopper := &models.User{Name: "Shopper", Email: "shopper@example.com", Password: "irrelevant"}
		require.NoError(t, env.db.Create(shopper).Error)
		token, err := env.auth.IssueToken(shopper)
		require.NoError(t, err)

		recorder := env.do(http.MethodPost, "/api/products", token, handlers.CreateProductRequest{})
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestListProductsHandler(t *testing.T) {
	env := newTestEnv(t)

	older := env.seedProduct(t, "Older Hoodie", "hoodies", 400, time.Now().Add(-2*time.Hour))
	newer := env.seedProduct(t, "Newer Hoodie", "hoodies", 450, time.Now().Add(-time.Hour))
	env.seedProduct(t, "Classic Tee", "t-shirts", 250, time.Now().Add(-30*time.Minute))

	t.Run("Lists all products newest first", func(t *testing.T) {
		recorder := env.do(http.MethodGet, "/api/products", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var products []models.Product
		decodeBody(t, recorder, &products)
		require.Len(t, products, 3)
		assert.Equal(t, "Classic Tee", products[0].Name)
		assert.Equal(t, newer.Name, products[1].Name)
		assert.Equal(t, older.Name, products[2].Name)
	})

	t.Run("Filters by category", func(t *testing.T) {
		recorder := env.do(http.MethodGet, "/api/products?category=t-shirts", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var products []models.Product
		decodeBody(t, recorder, &products)
		require.Len(t, products, 1)
		assert.Equal(t, "Classic Tee", products[0].Name)
	})

	t.Run("Returns the latest product", func(t *testing.T) {
		recorder := env.do(http.MethodGet, "/api/products/latest", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var product models.Product
		decodeBody(t, recorder, &product)
		assert.Equal(t, "Classic Tee", product.Name)
	})
}

func TestGetProductHandler(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Lookup Tee", "t-shirts", 199, time.Now())

	t.Run("Returns the product by id", func(t *testing.T) {
		recorder := env.do(http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var fetched models.Product
		decodeBody(t, recorder, &fetched)
		assert.Equal(t, product.ID, fetched.ID)
		assert.Equal(t, "Lookup Tee", fetched.Name)
	})

	t.Run("Returns 404 for an unknown id", func(t *testing.T) {
		recorder := env.do(http.MethodGet, "/api/products/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Returns 400 for a malformed id", func(t *testing.T) {
		recorder := env.do(http.MethodGet, "/api/products/not-a-number", "", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestUpdateProductHandler(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Editable Tee", "t-shirts", 300, time.Now())

	t.Run("Updates only the provided fields", func(t *testing.T) {
		newPrice := 250.0
		recorder := env.do(http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), env.token,
			handlers.UpdateProductRequest{SalePrice: &newPrice})
		assert.Equal(t, http.StatusOK, recorder.Code)

		var updated models.Product
		decodeBody(t, recorder, &updated)
		assert.Equal(t, 250.0, updated.SalePrice)
		assert.Equal(t, "Editable Tee", updated.Name)
		assert.Equal(t, product.Description, updated.Description)
	})

	t.Run("Rejects replacing images with an empty list", func(t *testing.T) {
		empty := []string{}
		recorder := env.do(http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), env.token,
			handlers.UpdateProductRequest{Images: &empty})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Returns 404 for an unknown id", func(t *testing.T) {
		name := "Ghost"
		recorder := env.do(http.MethodPut, "/api/products/9999", env.token,
			handlers.UpdateProductRequest{Name: &name})
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestToggleProductHandler(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Toggle Tee", "t-shirts", 199, time.Now())
	path := fmt.Sprintf("/api/products/%d/toggle", product.ID)

	t.Run("Double toggle restores the original availability", func(t *testing.T) {
		recorder := env.do(http.MethodPut, path, env.token, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var toggled models.Product
		decodeBody(t, recorder, &toggled)
		assert.False(t, toggled.IsAvailable)

		recorder = env.do(http.MethodPut, path, env.token, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		decodeBody(t, recorder, &toggled)
		assert.True(t, toggled.IsAvailable)

		var stored models.Product
		require.NoError(t, env.db.First(&stored, product.ID).Error)
		assert.True(t, stored.IsAvailable)
	})

	t.Run("Returns 404 for an unknown id", func(t *testing.T) {
		recorder := env.do(http.MethodPut, "/api/products/9999/toggle", env.token, nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestDeleteProductHandler(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Doomed Tee", "t-shirts", 199, time.Now())

	t.Run("Deletes the product and its stored images", func(t *testing.T) {
		recorder := env.do(http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), env.token, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var count int64
		env.db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(0), count)

		recorder = env.do(http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), "", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Returns 404 when the product does not exist", func(t *testing.T) {
		recorder := env.do(http.MethodDelete, "/api/products/9999", env.token, nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
