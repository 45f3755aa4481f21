package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"melochei/internal/handlers"
	"melochei/internal/models"
	"melochei/internal/repositories"
	"melochei/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite for the
// catalog and users, and in-memory repositories for the rest.
func setupApp() (*fiber.App, *services.AuthService, error) {
	// Configure Viper for testing
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Initialize in-memory SQLite database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(&models.Product{}, &models.User{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Initialize Repositories
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := repositories.NewMockOrderRepository()
	promoRepo := repositories.NewMockPromotionRepository()
	zoneRepo := repositories.NewMockDeliveryZoneRepository()

	// Initialize Services
	authService := services.NewAuthService(userRepo, jwtSecret)
	productService := services.NewProductService(productRepo)
	promotionService := services.NewPromotionService(promoRepo)
	zoneService := services.NewDeliveryZoneService(zoneRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, zoneRepo, promoRepo, nil)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, promotionService, authService)
	cartHandler := handlers.NewCartHandler(cartService, authService)
	orderHandler := handlers.NewOrderHandler(orderService, authService)
	promotionHandler := handlers.NewPromotionHandler(promotionService, authService)
	zoneHandler := handlers.NewDeliveryZoneHandler(zoneService, authService)

	app := fiber.New()

	// API Routes
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	promotionHandler.RegisterRoutes(apiV1)
	zoneHandler.RegisterRoutes(apiV1)

	return app, authService, nil
}

// registerAndLogin creates a user through the service layer (so the role can
// be chosen) and returns a token obtained through the login endpoint.
func registerAndLogin(t *testing.T, app *fiber.App, authService *services.AuthService, username, role string) string {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	}
	require.NoError(t, authService.RegisterUser(user))

	loginCredentials := map[string]string{
		"username": username,
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(loginCredentials)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	require.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// jsonRequest builds a JSON request with an optional bearer token.
func jsonRequest(method, target string, body interface{}, token string) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(ioutil.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, authService, err := setupApp()
	assert.NoError(t, err)

	// Test Registration
	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(userToRegister)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&registerResp)
	assert.NoError(t, err)
	assert.Equal(t, "User registered successfully", registerResp["message"])
	resp.Body.Close()

	// Test Duplicate Registration (username)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Test Login
	loginCredentials := map[string]string{
		"username": "testuser",
		"password": "password123",
	}
	jsonBody, _ = json.Marshal(loginCredentials)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	err = json.NewDecoder(resp.Body).Decode(&loginResp)
	assert.NoError(t, err)
	assert.Contains(t, loginResp, "token")
	assert.NotEmpty(t, loginResp["token"])
	resp.Body.Close()

	// Validate the token with authService; new users default to the
	// customer role.
	claims, err := authService.ValidateToken(loginResp["token"])
	assert.NoError(t, err)
	assert.Equal(t, "testuser", claims["username"])
	assert.Contains(t, claims, "user_id")
	assert.Equal(t, models.RoleCustomer, claims["role"])
}

func TestProductReadsArePublic(t *testing.T) {
	app, _, err := setupApp()
	require.NoError(t, err)

	// Catalog browsing must not require a token
	req := jsonRequest(http.MethodGet, "/api/v1/products", nil, "")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Writes without a token are rejected
	newProduct := map[string]interface{}{
		"name":  "Unauthorized Product",
		"price": 100.0,
		"stock": 10,
	}
	req = jsonRequest(http.MethodPost, "/api/v1/products", newProduct, "")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProductAdminCRUD(t *testing.T) {
	app, authService, err := setupApp()
	require.NoError(t, err)

	adminToken := registerAndLogin(t, app, authService, "adminuser", models.RoleAdmin)
	customerToken := registerAndLogin(t, app, authService, "plaincustomer", models.RoleCustomer)

	// A customer may not create products
	newProduct := map[string]interface{}{
		"name":        "Wall Anchor Pack",
		"description": "Box of 100 nylon wall anchors",
		"price":       350,
		"stock":       60,
	}
	req := jsonRequest(http.MethodPost, "/api/v1/products", newProduct, customerToken)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// --- Create (admin) ---
	req = jsonRequest(http.MethodPost, "/api/v1/products", newProduct, adminToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var createdProduct models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&createdProduct))
	assert.NotEmpty(t, createdProduct.ID)
	assert.Equal(t, "Wall Anchor Pack", createdProduct.Name)
	resp.Body.Close()

	// --- Read back (public detail view) ---
	req = jsonRequest(http.MethodGet, "/api/v1/products/"+createdProduct.ID, nil, "")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Product   models.Product  `json:"product"`
		BestPrice decimal.Decimal `json:"best_price"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Equal(t, createdProduct.ID, detail.Product.ID)
	// No promotions are seeded, so the best price is the list price
	assert.True(t, detail.BestPrice.Equal(decimal.NewFromInt(350)),
		"expected best price 350, got %s", detail.BestPrice)
	resp.Body.Close()

	// --- Update (admin) ---
	updatedProductData := map[string]interface{}{
		"name":        "Wall Anchor Pack XL",
		"description": "Box of 200 nylon wall anchors",
		"price":       600,
		"stock":       30,
	}
	req = jsonRequest(http.MethodPut, "/api/v1/products/"+createdProduct.ID, updatedProductData, adminToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updatedProduct models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&updatedProduct))
	assert.Equal(t, createdProduct.ID, updatedProduct.ID)
	assert.Equal(t, "Wall Anchor Pack XL", updatedProduct.Name)
	resp.Body.Close()

	// --- Delete (admin) ---
	req = jsonRequest(http.MethodDelete, "/api/v1/products/"+createdProduct.ID, nil, adminToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Verify deletion
	req = jsonRequest(http.MethodGet, "/api/v1/products/"+createdProduct.ID, nil, "")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCartFlow(t *testing.T) {
	app, authService, err := setupApp()
	require.NoError(t, err)

	adminToken := registerAndLogin(t, app, authService, "cartadmin", models.RoleAdmin)
	customerToken := registerAndLogin(t, app, authService, "cartcustomer", models.RoleCustomer)

	// Cart is private
	req := jsonRequest(http.MethodGet, "/api/v1/cart", nil, "")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Seed a product through the admin API
	newProduct := map[string]interface{}{
		"name":        "Utility Knife",
		"description": "Retractable utility knife with spare blades",
		"price":       450,
		"stock":       5,
	}
	req = jsonRequest(http.MethodPost, "/api/v1/products", newProduct, adminToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	resp.Body.Close()

	// --- Add to cart ---
	addReq := map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	}
	req = jsonRequest(http.MethodPost, "/api/v1/cart/items", addReq, customerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var cart models.Cart
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(900)),
		"expected subtotal 900, got %s", cart.Subtotal)
	resp.Body.Close()

	// --- Requesting more than stock clamps to what is available ---
	updateReq := map[string]interface{}{"quantity": 10}
	req = jsonRequest(http.MethodPatch, "/api/v1/cart/items/"+product.ID, updateReq, customerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	resp.Body.Close()

	// --- Setting quantity to zero removes the line ---
	updateReq = map[string]interface{}{"quantity": 0}
	req = jsonRequest(http.MethodPatch, "/api/v1/cart/items/"+product.ID, updateReq, customerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	assert.Len(t, cart.Items, 0)
	resp.Body.Close()

	// --- Merging an offline cart revalidates against the catalog ---
	mergeReq := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"product_id":         product.ID,
				"name":               "Utility Knife",
				"price":              450,
				"quantity":           3,
				"available_quantity": 5,
			},
			{
				"product_id":         "ghost-product",
				"name":               "No Longer Sold",
				"price":              100,
				"quantity":           1,
				"available_quantity": 1,
			},
		},
	}
	req = jsonRequest(http.MethodPost, "/api/v1/cart/merge", mergeReq, customerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	// The vanished product is dropped; the surviving line keeps its quantity
	require.Len(t, cart.Items, 1)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	resp.Body.Close()

	// --- Clear ---
	req = jsonRequest(http.MethodDelete, "/api/v1/cart", nil, customerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req = jsonRequest(http.MethodGet, "/api/v1/cart", nil, customerToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	assert.Len(t, cart.Items, 0)
	resp.Body.Close()
}

func TestZoneQuoteEndpoint(t *testing.T) {
	app, authService, err := setupApp()
	require.NoError(t, err)

	adminToken := registerAndLogin(t, app, authService, "zoneadmin", models.RoleAdmin)

	newZone := map[string]interface{}{
		"name":                    "Test Zone",
		"base_fee":                1500,
		"free_delivery_threshold": 20000,
		"min_order_amount":        1000,
		"allowed_weekdays":        []int{1, 2, 3, 4, 5},
		"delivery_hour_start":     9,
		"delivery_hour_end":       18,
	}
	req := jsonRequest(http.MethodPost, "/api/v1/zones", newZone, adminToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var zone models.DeliveryZone
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&zone))
	resp.Body.Close()

	// Below the threshold the base fee applies
	req = jsonRequest(http.MethodGet, "/api/v1/zones/"+zone.ID+"/quote?subtotal=19999", nil, "")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var quote struct {
		Fee decimal.Decimal `json:"fee"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
	assert.True(t, quote.Fee.Equal(decimal.NewFromInt(1500)),
		"expected fee 1500, got %s", quote.Fee)
	resp.Body.Close()

	// At the threshold delivery is free
	req = jsonRequest(http.MethodGet, "/api/v1/zones/"+zone.ID+"/quote?subtotal=20000", nil, "")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
	assert.True(t, quote.Fee.IsZero(), "expected free delivery, got %s", quote.Fee)
	resp.Body.Close()
}
