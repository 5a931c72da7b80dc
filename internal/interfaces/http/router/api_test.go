package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	adminapp "github.com/luminform/atelier/internal/application/admin"
	analyticsapp "github.com/luminform/atelier/internal/application/analytics"
	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
	catalogapp "github.com/luminform/atelier/internal/application/catalog"
	"github.com/luminform/atelier/internal/application/identity"
	micrositeapp "github.com/luminform/atelier/internal/application/microsite"
	partnerapp "github.com/luminform/atelier/internal/application/partner"
	tradeapp "github.com/luminform/atelier/internal/application/trade"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/infrastructure/cache"
	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/luminform/atelier/internal/infrastructure/event"
	"github.com/luminform/atelier/internal/infrastructure/persistence"
	"github.com/luminform/atelier/internal/infrastructure/storage"
	"github.com/luminform/atelier/internal/interfaces/http/handler"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	shared.PasswordCost = 4
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

const testPassword = "correct-horse-battery-42"

type testApp struct {
	engine *gin.Engine
	db     *gorm.DB
	admins *persistence.GormAdminUserRepository
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	database, err := persistence.Open(sqlite.Open(":memory:"), zap.NewNop(), persistence.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	db := database.DB
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(persistence.Models()...))
	for _, stmt := range []string{
		"CREATE UNIQUE INDEX idx_quotes_partner_number ON quotes (partner_id, quote_number)",
		"CREATE UNIQUE INDEX idx_orders_partner_number ON orders (partner_id, order_number)",
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	log := zap.NewNop()
	tx := persistence.NewTransactor(db)
	publisher := event.NewLogPublisher(log)
	blacklist := auth.NewInMemoryTokenBlacklist()
	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-0123456789abcdef",
		RefreshSecret:          "test-refresh-secret-0123456789abcdef",
		Issuer:                 "atelier-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		MaxRefreshCount:        5,
	})

	partners := persistence.NewGormPartnerRepository(db)
	partnerUsers := persistence.NewGormPartnerUserRepository(db)
	products := persistence.NewGormProductRepository(db)
	collections := persistence.NewGormCollectionRepository(db)
	quotes := persistence.NewGormQuoteRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	microsites := persistence.NewGormMicrositeRepository(db)
	kits := persistence.NewGormBrandKitRepository(db)
	admins := persistence.NewGormAdminUserRepository(db)
	auditLogs := persistence.NewGormAuditLogRepository(db)
	objects := storage.NewStubObjectStorage("http://files.test")

	auditService := adminapp.NewAuditService(auditLogs, log)
	authService := identity.NewAuthService(identity.AuthServiceDeps{
		Partners:     partners,
		PartnerUsers: partnerUsers,
		Admins:       admins,
		JWT:          jwt,
		Blacklist:    blacklist,
		Auditor:      auditService,
		Logger:       log,
	})
	brandKitService := brandkitapp.NewService(kits, objects, brandkitapp.ServiceConfig{}, log)

	h := Handlers{
		Auth: handler.NewAuthHandler(authService,
			middleware.NewSessionCookie("atelier_session", config.CookieConfig{}),
			middleware.NewSessionCookie("atelier_admin", config.CookieConfig{})),
		Partner: handler.NewPartnerHandler(
			partnerapp.NewService(partners, partnerUsers, tx, publisher, blacklist, 24*time.Hour, log),
			auditService),
		Catalog: handler.NewCatalogHandler(catalogapp.NewProductService(products, log), auditService),
		Collection: handler.NewCollectionHandler(
			catalogapp.NewCollectionService(collections, products, microsites, publisher, log)),
		Quote: handler.NewQuoteHandler(tradeapp.NewQuoteService(tradeapp.QuoteServiceDeps{
			Quotes: quotes, Orders: orders, Products: products, Collections: collections,
			Partners: partners, BrandKits: kits, Storage: objects, Tx: tx, Publisher: publisher, Logger: log,
		})),
		Order: handler.NewOrderHandler(
			tradeapp.NewOrderService(orders, partners, products, collections, tx, publisher, nil, log),
			auditService),
		Microsite: handler.NewMicrositeHandler(micrositeapp.NewService(micrositeapp.ServiceDeps{
			Microsites: microsites, Collections: collections, Products: products, Partners: partners,
			Appearance: brandKitService, Publisher: publisher, Logger: log,
		}), auditService),
		BrandKit: handler.NewBrandKitHandler(brandKitService),
		Analytics: handler.NewAnalyticsHandler(analyticsapp.NewService(
			partners, orders, quotes, cache.NewMemoryStore(), analyticsapp.ServiceConfig{}, log)),
		Admin:  handler.NewAdminHandler(adminapp.NewUserService(admins, log), auditService),
		System: handler.NewSystemHandler("atelier", "test", "test"),
	}
	g := Guards{
		PartnerSession: middleware.Session(middleware.SessionConfig{Auth: authService, CookieName: "atelier_session"}),
		AdminSession:   middleware.Session(middleware.SessionConfig{Auth: authService, CookieName: "atelier_admin"}),
		RequireAdmin:   middleware.RequireAdmin(middleware.AdminGuardConfig{Admins: admins}),
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := NewRouter(engine)
	for _, group := range APIGroups(h, g) {
		r.Register(group)
	}
	r.Setup()
	RegisterSystem(engine, h.System)

	return &testApp{engine: engine, db: db, admins: admins}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "application/pdf" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (a *testApp) seedAdmin(t *testing.T, email string, role admin.Role) *admin.User {
	t.Helper()
	u, err := admin.NewUser(email, testPassword, "Admin "+string(role), role)
	require.NoError(t, err)
	require.NoError(t, a.admins.Save(context.Background(), u))
	return u
}

func (a *testApp) adminToken(t *testing.T, email string) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/admin/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[identity.LoginResult](t, env).AccessToken
}

// registerPartner signs a partner up, activates it as superToken and
// returns the partner id and an owner token
func (a *testApp) registerPartner(t *testing.T, slug, superToken string) (string, string) {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/partners/register", "", map[string]string{
		"name":          "Studio " + slug,
		"slug":          slug,
		"business_type": "planner",
		"owner_email":   slug + "@example.com",
		"password":      testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[partnerapp.RegistrationResponse](t, env)
	partnerID := reg.Partner.ID.String()

	w, _ = a.do(t, http.MethodPost, "/admin/partners/"+partnerID+"/activate", superToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = a.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": slug + "@example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return partnerID, decode[identity.LoginResult](t, env).AccessToken
}

func (a *testApp) createProduct(t *testing.T, token, sku string) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/admin/products", token, map[string]any{
		"sku": sku, "name": "Product " + sku, "category": "decor", "base_price": "120.00", "currency": "EUR",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[catalogapp.ProductResponse](t, env).ID.String()
}

func (a *testApp) auditActions(t *testing.T) []string {
	t.Helper()
	var logs []admin.AuditLog
	require.NoError(t, a.db.Order("created_at").Find(&logs).Error)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}

func TestAPI_RequiresSession(t *testing.T) {
	app := newTestApp(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/quotes"},
		{http.MethodGet, "/collections"},
		{http.MethodGet, "/auth/me"},
		{http.MethodGet, "/admin/partners"},
		{http.MethodGet, "/admin/auth/me"},
	}
	for _, p := range paths {
		w, env := app.do(t, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
		require.NotNil(t, env.Error)
	}

	w, _ := app.do(t, http.MethodGet, "/quotes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_PartnerTokenCannotUseAdminAPI(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	super := app.adminToken(t, "root@atelier.test")
	_, partnerToken := app.registerPartner(t, "lumiere", super)

	w, _ := app.do(t, http.MethodGet, "/admin/partners", partnerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(t, http.MethodGet, "/collections", super, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "admin sessions are not partner sessions")
}

func TestAPI_PartnerRegistrationAndAudit(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	super := app.adminToken(t, "root@atelier.test")

	partnerID, token := app.registerPartner(t, "maison", super)

	w, env := app.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[identity.SessionUser](t, env)
	assert.Equal(t, "maison@example.com", me.Email)

	w, _ = app.do(t, http.MethodPost, "/partners/register", "", map[string]string{
		"name": "Other", "slug": "maison", "business_type": "venue",
		"owner_email": "other@example.com", "password": testPassword,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = app.do(t, http.MethodPost, "/admin/partners/"+partnerID+"/reactivate", super, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "only suspended partners reactivate")

	assert.ElementsMatch(t, []string{admin.ActionAdminLogin, admin.ActionPartnerStatus}, app.auditActions(t))
}

func TestAPI_PermissionsAndInactiveAdmin(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	support := app.seedAdmin(t, "help@atelier.test", admin.RoleSupport)
	super := app.adminToken(t, "root@atelier.test")
	supportToken := app.adminToken(t, "help@atelier.test")

	w, _ := app.do(t, http.MethodGet, "/admin/partners", supportToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := app.do(t, http.MethodPost, "/admin/products", supportToken, map[string]any{
		"sku": "ARC-1", "name": "Arch", "base_price": "10", "currency": "EUR",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)

	w, _ = app.do(t, http.MethodPost, "/admin/users/"+support.ID.String()+"/deactivate", super, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = app.do(t, http.MethodGet, "/admin/partners", supportToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "inactive admins are refused even with a valid token")

	assert.Contains(t, app.auditActions(t), admin.ActionAdminDeactivate)
}

func TestAPI_DuplicateSKU(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	super := app.adminToken(t, "root@atelier.test")

	app.createProduct(t, super, "VASE-01")
	w, env := app.do(t, http.MethodPost, "/admin/products", super, map[string]any{
		"sku": "VASE-01", "name": "Vase", "base_price": "10", "currency": "EUR",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, app.auditActions(t), admin.ActionProductCreate)
}

func TestAPI_TenantIsolation(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	super := app.adminToken(t, "root@atelier.test")
	_, tokenA := app.registerPartner(t, "alpha", super)
	_, tokenB := app.registerPartner(t, "beta", super)

	w, env := app.do(t, http.MethodPost, "/collections", tokenA, map[string]string{"name": "Spring Garden"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	collection := decode[catalogapp.CollectionResponse](t, env)

	w, _ = app.do(t, http.MethodGet, "/collections/"+collection.ID.String(), tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodGet, "/collections/"+collection.ID.String(), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.do(t, http.MethodDelete, "/collections/"+collection.ID.String(), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = app.do(t, http.MethodGet, "/collections", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]catalogapp.CollectionListResponse](t, env))
}

func TestAPI_QuoteToOrder(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	super := app.adminToken(t, "root@atelier.test")
	_, token := app.registerPartner(t, "gala", super)
	productID := app.createProduct(t, super, "TBL-10")

	w, env := app.do(t, http.MethodPost, "/quotes", token, map[string]any{
		"client_name":  "Ana & Bo",
		"client_email": "ana.bo@example.com",
		"currency":     "EUR",
		"lines":       []map[string]any{{"product_id": productID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quote := decode[tradeapp.QuoteResponse](t, env)
	assert.Equal(t, "draft", quote.Status)
	base := "/quotes/" + quote.ID.String()

	w, _ = app.do(t, http.MethodPost, base+"/convert", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "drafts cannot convert")

	for _, step := range []string{"/send", "/accept"} {
		w, _ = app.do(t, http.MethodPost, base+step, token, nil)
		require.Equal(t, http.StatusOK, w.Code, step+": "+w.Body.String())
	}

	w, env = app.do(t, http.MethodPost, base+"/convert", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[tradeapp.OrderResponse](t, env)
	assert.Equal(t, "pending", order.Status)
	assert.True(t, order.Total.Equal(quote.Total))

	w, _ = app.do(t, http.MethodPost, base+"/convert", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "a quote converts once")

	w, env = app.do(t, http.MethodGet, base+"/pdf", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = app.do(t, http.MethodPatch, "/admin/orders/"+order.ID.String(), super, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, app.auditActions(t), admin.ActionOrderStatus)
}

func TestAPI_SystemEndpoints(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	app.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := app.do(t, http.MethodGet, "/system/info", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[handler.SystemInfo](t, env)
	assert.Equal(t, "atelier", info.Name)
	assert.NotEmpty(t, info.GoVersion)
}

func TestAPI_QuoteNumbersAfterDeletedDraft(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	super := app.adminToken(t, "root@atelier.test")
	_, token := app.registerPartner(t, "verde", super)
	productID := app.createProduct(t, super, "CND-3")

	create := func() tradeapp.QuoteResponse {
		t.Helper()
		w, env := app.do(t, http.MethodPost, "/quotes", token, map[string]any{
			"client_name": "Iris",
			"currency":    "EUR",
			"lines":       []map[string]any{{"product_id": productID, "quantity": 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return decode[tradeapp.QuoteResponse](t, env)
	}

	first := create()
	second := create()
	w, _ := app.do(t, http.MethodDelete, "/quotes/"+first.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	third := create()
	fourth := create()
	prefix := second.QuoteNumber[:len(second.QuoteNumber)-4]
	assert.Equal(t, prefix+"0002", second.QuoteNumber)
	assert.Equal(t, prefix+"0003", third.QuoteNumber)
	assert.Equal(t, prefix+"0004", fourth.QuoteNumber)
}

func TestAPI_AdminShippingUpdateIsAudited(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	super := app.adminToken(t, "root@atelier.test")
	_, token := app.registerPartner(t, "nord", super)
	productID := app.createProduct(t, super, "LMP-2")

	w, env := app.do(t, http.MethodPost, "/orders", token, map[string]any{
		"client_name": "Noor",
		"currency":    "EUR",
		"lines":       []map[string]any{{"product_id": productID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[tradeapp.OrderResponse](t, env)

	before := len(app.auditActions(t))
	w, env = app.do(t, http.MethodPatch, "/admin/orders/"+order.ID.String(), super, map[string]string{
		"shipping_address": "1 Rue X, Paris",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1 Rue X, Paris", decode[tradeapp.OrderResponse](t, env).ShippingAddress)

	actions := app.auditActions(t)
	assert.Len(t, actions, before+1)
	assert.Contains(t, actions, admin.ActionOrderUpdate)
}
