//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/crafty-aquatics/storefront/test/pact"

	storefrontserver "github.com/crafty-aquatics/storefront/go"
	backofficeapp "github.com/crafty-aquatics/storefront/internal/domains/backoffice/application"
	cartkv "github.com/crafty-aquatics/storefront/internal/domains/cart/adapters/kv"
	cartapp "github.com/crafty-aquatics/storefront/internal/domains/cart/application"
	catalogmemory "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/crafty-aquatics/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	checkoutworkflows "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/crafty-aquatics/storefront/internal/domains/checkout/application"
	ordersmemory "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/memory"
	ordersapp "github.com/crafty-aquatics/storefront/internal/domains/orders/application"
	usersmemory "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/memory"
	usersobs "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/observability"
	userstoken "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/token"
	usersapp "github.com/crafty-aquatics/storefront/internal/domains/users/application"
	usersdomain "github.com/crafty-aquatics/storefront/internal/domains/users/domain"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStorefrontProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)
	usersdomain.HashCost = bcrypt.MinCost

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateDemoAccounts: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves a fresh in-memory storefront per provider state.
type contractProviderApp struct {
	mu      sync.RWMutex
	router  *gin.Engine
	catalog *catalogmemory.Repository
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()

	productRepo := catalogmemory.NewRepository()
	catalog := catalogapp.NewService(productRepo)
	carts := cartapp.NewService(cartkv.NewRepository(kvstore.NewMemory()), catalog)
	orders := ordersapp.NewService(ordersmemory.NewRepository())
	tokens, err := userstoken.NewJWT("pact-secret", time.Hour)
	require.NoError(t, err)
	users := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewSessionStore(), tokens)
	require.NoError(t, users.Seed(ctx))

	catalogService := catalogobs.New(catalog)
	userService := usersobs.New(users)
	checkout := checkoutworkflows.NewInlineCheckout(checkoutapp.NewService(carts, catalog, orders))

	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, storefrontserver.ApiHandleFunctions{
		Auth:        storefrontserver.NewAuthMiddleware(userService),
		HealthAPI:   storefrontserver.NewHealthAPI(storefrontserver.StorageStatus{Backend: "memory"}),
		CatalogAPI:  storefrontserver.NewCatalogAPI(catalogService),
		AuthAPI:     storefrontserver.NewAuthAPI(userService),
		CartAPI:     storefrontserver.NewCartAPI(carts),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(checkout),
		OrderAPI:    storefrontserver.NewOrderAPI(orders),
		AdminAPI:    storefrontserver.NewAdminAPI(backofficeapp.NewService(catalog, orders, users), orders),
	})

	a.mu.Lock()
	a.router = router
	a.catalog = productRepo
	a.mu.Unlock()
}

func (a *contractProviderApp) seedProduct(t testing.TB) {
	t.Helper()
	example := pacttest.ExampleProductPayload()
	price, err := decimal.NewFromString(example["price"].(string))
	require.NoError(t, err)
	product, err := catalogdomain.NewProduct(
		pacttest.ExistingProductID,
		example["name"].(string),
		example["description"].(string),
		price,
		example["image"].(string),
		catalogdomain.CategoryFish,
		example["stock"].(int),
		example["currency"].(string),
	)
	require.NoError(t, err)

	a.mu.RLock()
	repo := a.catalog
	a.mu.RUnlock()
	_, err = repo.Create(context.Background(), product)
	require.NoError(t, err)
}
