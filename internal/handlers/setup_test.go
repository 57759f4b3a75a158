package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Abbrahem/GIVENTO/internal/auth"
	"github.com/Abbrahem/GIVENTO/internal/db"
	"github.com/Abbrahem/GIVENTO/internal/handlers"
	"github.com/Abbrahem/GIVENTO/internal/models"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *auth.Service
	token  string
	admin  *models.User
}

// newTestEnv wires the full route table against an in-memory SQLite database
// and returns a valid admin token for the seeded back-office user.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to connect test database")
	require.NoError(t, db.Migrate(testDB), "failed to migrate test database")

	authSvc := auth.NewService("test-secret", time.Hour)

	hashed, err := auth.HashPassword("secret")
	require.NoError(t, err)
	admin := &models.User{Name: "Admin", Email: "admin@example.com", Password: hashed, IsAdmin: true}
	require.NoError(t, testDB.Create(admin).Error)

	token, err := authSvc.IssueToken(admin)
	require.NoError(t, err)

	authHandler := &handlers.AuthHandler{DB: testDB, Auth: authSvc}
	productHandler := &handlers.ProductHandler{DB: testDB}
	orderHandler := &handlers.OrderHandler{DB: testDB}
	categoryHandler := &handlers.CategoryHandler{DB: testDB}

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/products", productHandler.List)
		api.GET("/products/latest", productHandler.Latest)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/categories", categoryHandler.List)
		api.GET("/categories/:slug/products", categoryHandler.Products)
		api.POST("/orders", orderHandler.Create)
	}

	adminAPI := r.Group("/api")
	adminAPI.Use(auth.RequireAdmin(authSvc))
	{
		adminAPI.POST("/products", productHandler.Create)
		adminAPI.PUT("/products/:id", productHandler.Update)
		adminAPI.PUT("/products/:id/toggle", productHandler.Toggle)
		adminAPI.DELETE("/products/:id", productHandler.Delete)

		adminAPI.GET("/orders", orderHandler.List)
		adminAPI.GET("/orders/:id", orderHandler.Get)
		adminAPI.PUT("/orders/:id/status", orderHandler.UpdateStatus)
		adminAPI.DELETE("/orders/:id", orderHandler.Delete)
		adminAPI.POST("/orders/bulk-delete", orderHandler.BulkDelete)

		adminAPI.POST("/categories", categoryHandler.Create)
		adminAPI.PUT("/categories/:slug", categoryHandler.Update)
		adminAPI.DELETE("/categories/:slug", categoryHandler.Delete)
	}

	return &testEnv{router: r, db: testDB, auth: authSvc, token: token, admin: admin}
}

// do performs a request against the test router. An empty token sends no
// Authorization header.
func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func (e *testEnv) seedProduct(t *testing.T, name, category string, salePrice float64, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Description:   "seeded product",
		OriginalPrice: salePrice + 50,
		SalePrice:     salePrice,
		Category:      category,
		Sizes:         models.StringList{"M", "L"},
		Colors:        models.StringList{"black"},
		Images:        models.StringList{"data:image/png;base64,aGVsbG8="},
		IsAvailable:   true,
		CreatedAt:     createdAt,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) seedOrder(t *testing.T, customerName string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderRef:        fmt.Sprintf("GV-%s-%d", t.Name(), time.Now().UnixNano()),
		CustomerName:    customerName,
		CustomerPhone:   "+201001234567",
		CustomerAddress: "12 Nile St, Cairo",
		TotalAmount:     300,
		Status:          models.StatusPending,
		Items: []models.OrderItem{
			{ProductName: "Tee", Price: 150, Quantity: 2},
		},
	}
	require.NoError(t, e.db.Create(order).Error)
	return order
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), out))
}
