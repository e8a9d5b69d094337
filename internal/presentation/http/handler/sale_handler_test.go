package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acampos/tiendita-api/internal/application/service"
	"github.com/acampos/tiendita-api/internal/domain/entity"
	"github.com/acampos/tiendita-api/internal/domain/enum"
	infraRepo "github.com/acampos/tiendita-api/internal/infrastructure/repository"
	"github.com/acampos/tiendita-api/internal/presentation/http/middleware"
	"github.com/acampos/tiendita-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type saleTestEnv struct {
	db         *gorm.DB
	router     *gin.Engine
	jwtManager *utils.JWTManager
}

func setupSaleEnv(t *testing.T) *saleTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Product{},
		&entity.Sale{},
		&entity.SaleItem{},
	))

	saleService := service.NewSaleService(
		infraRepo.NewTxManager(db),
		infraRepo.NewSaleRepository(db),
		infraRepo.NewProductRepository(db),
		zaptest.NewLogger(t),
	)
	h := NewSaleHandler(saleService)

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	router := gin.New()
	sales := router.Group("/api/v1/sales")
	sales.Use(middleware.AuthMiddleware(jwtManager))
	{
		sales.GET("", h.List)
		sales.POST("", h.Create)
		sales.GET("/:id", h.Get)
		sales.DELETE("/:id", h.Delete)
	}

	return &saleTestEnv{db: db, router: router, jwtManager: jwtManager}
}

func (e *saleTestEnv) seedUser(t *testing.T, role enum.Role) (*entity.User, string) {
	t.Helper()
	user := &entity.User{
		Username: "user-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(user).Error)

	token, err := e.jwtManager.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	require.NoError(t, err)
	return user, token
}

func (e *saleTestEnv) seedProduct(t *testing.T, name, price, stock string) *entity.Product {
	t.Helper()
	category := &entity.Category{Name: "cat-" + uuid.NewString()[:8]}
	require.NoError(t, e.db.Create(category).Error)

	product := &entity.Product{
		CategoryID: category.ID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      decimal.RequireFromString(stock),
		IsActive:   true,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *saleTestEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSaleEndpoints_RequireAuth(t *testing.T) {
	env := setupSaleEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/sales", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/sales", "bad-token", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateSaleEndpoint(t *testing.T) {
	env := setupSaleEnv(t)
	_, token := env.seedUser(t, enum.RoleCashier)
	product := env.seedProduct(t, "Arroz 1kg", "5.00", "10.000")

	w := env.do(t, http.MethodPost, "/api/v1/sales", token, gin.H{
		"payment_method": "cash",
		"discount":       "2.00",
		"items": []gin.H{
			{"product_id": product.ID, "quantity": "3.000", "price": "5.00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID       uuid.UUID `json:"id"`
			Subtotal string    `json:"subtotal"`
			Total    string    `json:"total"`
			Items    []struct {
				ProductName string `json:"product_name"`
				Subtotal    string `json:"subtotal"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, decimal.RequireFromString(resp.Data.Subtotal).Equal(decimal.RequireFromString("15.00")))
	assert.True(t, decimal.RequireFromString(resp.Data.Total).Equal(decimal.RequireFromString("13.00")))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "Arroz 1kg", resp.Data.Items[0].ProductName)

	var updated entity.Product
	require.NoError(t, env.db.First(&updated, "id = ?", product.ID).Error)
	assert.True(t, updated.Stock.Equal(decimal.RequireFromString("7.000")))
}

func TestCreateSaleEndpoint_InsufficientStock(t *testing.T) {
	env := setupSaleEnv(t)
	_, token := env.seedUser(t, enum.RoleCashier)
	product := env.seedProduct(t, "Cafe", "12.00", "1.000")

	w := env.do(t, http.MethodPost, "/api/v1/sales", token, gin.H{
		"payment_method": "cash",
		"items": []gin.H{
			{"product_id": product.ID, "quantity": "2.000", "price": "12.00"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")
}

func TestCreateSaleEndpoint_MalformedBody(t *testing.T) {
	env := setupSaleEnv(t)
	_, token := env.seedUser(t, enum.RoleCashier)

	w := env.do(t, http.MethodPost, "/api/v1/sales", token, gin.H{
		"payment_method": "cash",
		"items":          []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSaleEndpoint_RoleEnforcement(t *testing.T) {
	env := setupSaleEnv(t)
	_, cashierToken := env.seedUser(t, enum.RoleCashier)
	_, adminToken := env.seedUser(t, enum.RoleAdmin)
	product := env.seedProduct(t, "Aceite", "8.00", "10.000")

	w := env.do(t, http.MethodPost, "/api/v1/sales", cashierToken, gin.H{
		"payment_method": "cash",
		"items": []gin.H{
			{"product_id": product.ID, "quantity": "4.000", "price": "8.00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	saleURL := fmt.Sprintf("/api/v1/sales/%s", resp.Data.ID)

	w = env.do(t, http.MethodDelete, saleURL, cashierToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, saleURL, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var updated entity.Product
	require.NoError(t, env.db.First(&updated, "id = ?", product.ID).Error)
	assert.True(t, updated.Stock.Equal(decimal.RequireFromString("10.000")))

	w = env.do(t, http.MethodGet, saleURL, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSalesEndpoint_DateFilter(t *testing.T) {
	env := setupSaleEnv(t)
	_, token := env.seedUser(t, enum.RoleCashier)
	product := env.seedProduct(t, "Galletas", "2.50", "100.000")

	w := env.do(t, http.MethodPost, "/api/v1/sales", token, gin.H{
		"payment_method": "cash",
		"items": []gin.H{
			{"product_id": product.ID, "quantity": "1.000", "price": "2.50"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Items      []json.RawMessage `json:"items"`
			Pagination struct {
				PerPage int `json:"per_page"`
			} `json:"pagination"`
		} `json:"data"`
	}

	w = env.do(t, http.MethodGet, "/api/v1/sales?today=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 15, resp.Data.Pagination.PerPage)

	w = env.do(t, http.MethodGet, "/api/v1/sales?start_date=2030-01-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp.Data.Items = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
}
