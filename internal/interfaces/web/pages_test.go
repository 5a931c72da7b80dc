package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
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
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/microsite"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/infrastructure/cache"
	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/luminform/atelier/internal/infrastructure/event"
	"github.com/luminform/atelier/internal/infrastructure/persistence"
	"github.com/luminform/atelier/internal/infrastructure/storage"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	shared.PasswordCost = 4
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

const (
	password      = "correct-horse-battery-42"
	partnerCookie = "atelier_session"
	adminCookie   = "atelier_admin"
)

type fixture struct {
	engine    *gin.Engine
	db        *gorm.DB
	partners  *persistence.GormPartnerRepository
	users     *persistence.GormPartnerUserRepository
	admins    *persistence.GormAdminUserRepository
	brandKits *brandkitapp.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(persistence.Models()...))

	log := zap.NewNop()
	tx := persistence.NewTransactor(db)
	publisher := event.NewLogPublisher(log)
	blacklist := auth.NewInMemoryTokenBlacklist()
	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                 "pages-access-secret-0123456789abcdef",
		RefreshSecret:          "pages-refresh-secret-0123456789abcdef",
		Issuer:                 "atelier-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		MaxRefreshCount:        3,
	})

	partners := persistence.NewGormPartnerRepository(db)
	users := persistence.NewGormPartnerUserRepository(db)
	products := persistence.NewGormProductRepository(db)
	collections := persistence.NewGormCollectionRepository(db)
	quotes := persistence.NewGormQuoteRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	microsites := persistence.NewGormMicrositeRepository(db)
	admins := persistence.NewGormAdminUserRepository(db)
	objects := storage.NewStubObjectStorage("http://files.test")

	audit := adminapp.NewAuditService(persistence.NewGormAuditLogRepository(db), log)
	authService := identity.NewAuthService(identity.AuthServiceDeps{
		Partners:     partners,
		PartnerUsers: users,
		Admins:       admins,
		JWT:          jwt,
		Blacklist:    blacklist,
		Auditor:      audit,
		Logger:       log,
	})
	brandKits := brandkitapp.NewService(persistence.NewGormBrandKitRepository(db), objects, brandkitapp.ServiceConfig{}, log)

	pages, err := New(Deps{
		Auth:        authService,
		Partners:    partnerapp.NewService(partners, users, tx, publisher, blacklist, time.Hour, log),
		Collections: catalogapp.NewCollectionService(collections, products, microsites, publisher, log),
		Quotes: tradeapp.NewQuoteService(tradeapp.QuoteServiceDeps{
			Quotes: quotes, Orders: orders, Products: products, Collections: collections,
			Partners: partners, Storage: objects, Tx: tx, Publisher: publisher, Logger: log,
		}),
		Orders: tradeapp.NewOrderService(orders, partners, products, collections, tx, publisher, nil, log),
		Microsites: micrositeapp.NewService(micrositeapp.ServiceDeps{
			Microsites: microsites, Collections: collections, Products: products, Partners: partners,
			Appearance: brandKits, Publisher: publisher, Logger: log,
		}),
		Analytics:     analyticsapp.NewService(partners, orders, quotes, cache.NewMemoryStore(), analyticsapp.ServiceConfig{}, log),
		Audit:         audit,
		Admins:        admins,
		PartnerCookie: middleware.NewSessionCookie(partnerCookie, config.CookieConfig{}),
		AdminCookie:   middleware.NewSessionCookie(adminCookie, config.CookieConfig{}),
		Logger:        log,
	})
	require.NoError(t, err)

	engine := gin.New()
	pages.Register(engine)
	return &fixture{engine: engine, db: db, partners: partners, users: users, admins: admins, brandKits: brandKits}
}

func (f *fixture) seedPartner(t *testing.T, slug string) *partner.Partner {
	t.Helper()
	ctx := context.Background()
	p, err := partner.NewPartner("Maison "+slug, slug, partner.BusinessTypePlanner, slug+"@partners.test")
	require.NoError(t, err)
	require.NoError(t, p.Activate())
	require.NoError(t, f.partners.Save(ctx, p))
	u, err := partner.NewUser(p.ID, "owner@"+slug+".test", password, "Owner", partner.UserRoleOwner)
	require.NoError(t, err)
	require.NoError(t, f.users.Save(ctx, u))
	return p
}

func (f *fixture) seedAdmin(t *testing.T, email string, role admin.Role) {
	t.Helper()
	u, err := admin.NewUser(email, password, "Staff", role)
	require.NoError(t, err)
	require.NoError(t, f.admins.Save(context.Background(), u))
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func postForm(path, email, pass string) *http.Request {
	form := url.Values{"email": {email}, "password": {pass}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func get(path string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestPartnerLoginPage(t *testing.T) {
	f := newFixture(t)

	w := f.do(get("/login"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `action="/login"`)

	f.seedPartner(t, "lumiere")
	w = f.do(postForm("/login", "owner@lumiere.test", "wrong-password"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password.")
	assert.Contains(t, w.Body.String(), `value="owner@lumiere.test"`)

	w = f.do(postForm("/login", "not-an-email", "x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartnerPortal(t *testing.T) {
	f := newFixture(t)
	f.seedPartner(t, "lumiere")

	w := f.do(get("/dashboard"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = f.do(postForm("/login", "owner@lumiere.test", password))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	session := sessionCookie(t, w, partnerCookie)

	for _, path := range []string{"/dashboard", "/collections", "/quotes", "/orders"} {
		w = f.do(get(path, session))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "Maison lumiere", path)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(session)
	w = f.do(req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = f.do(get("/dashboard", session))
	assert.Equal(t, http.StatusSeeOther, w.Code, "revoked session is rejected")
}

func TestBackOfficePages(t *testing.T) {
	f := newFixture(t)
	f.seedAdmin(t, "root@atelier.test", admin.RoleSuperAdmin)
	f.seedAdmin(t, "ops@atelier.test", admin.RoleOperations)
	f.seedPartner(t, "lumiere")

	w := f.do(get("/admin"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = f.do(postForm("/admin/login", "root@atelier.test", password))
	require.Equal(t, http.StatusSeeOther, w.Code)
	root := sessionCookie(t, w, adminCookie)

	for _, path := range []string{"/admin", "/admin/partners", "/admin/orders", "/admin/audit-logs"} {
		w = f.do(get(path, root))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	w = f.do(get("/admin/partners?status=active", root))
	assert.Contains(t, w.Body.String(), "lumiere")
	w = f.do(get("/admin/audit-logs", root))
	assert.Contains(t, w.Body.String(), "admin.login")

	w = f.do(postForm("/admin/login", "ops@atelier.test", password))
	require.Equal(t, http.StatusSeeOther, w.Code)
	ops := sessionCookie(t, w, adminCookie)
	w = f.do(get("/admin/audit-logs", ops))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = f.do(get("/admin/orders", ops))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBackOfficeRejectsPartnerSession(t *testing.T) {
	f := newFixture(t)
	f.seedPartner(t, "lumiere")

	w := f.do(postForm("/login", "owner@lumiere.test", password))
	require.Equal(t, http.StatusSeeOther, w.Code)
	session := sessionCookie(t, w, partnerCookie)

	w = f.do(get("/admin", &http.Cookie{Name: adminCookie, Value: session.Value}))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMicrositePage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedPartner(t, "lumiere")

	product, err := catalog.NewProduct("ARC-1", "Floral Arch", "decor", decimal.NewFromInt(450), "EUR")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(f.db).Save(ctx, product))

	collection, err := catalog.NewCollection(p.ID, "Garden Party", "garden-party", "")
	require.NoError(t, err)
	_, err = collection.AddItem(product, "Fresh peonies", nil)
	require.NoError(t, err)
	require.NoError(t, collection.Publish())
	require.NoError(t, persistence.NewGormCollectionRepository(f.db).Save(ctx, collection))

	site, err := microsite.NewMicrosite(p.ID, collection.ID, "lumiere-garden", microsite.Content{
		Title:    "Garden weddings",
		Headline: "Weddings under the open sky",
	})
	require.NoError(t, err)
	require.NoError(t, site.Publish(true, time.Now()))
	require.NoError(t, persistence.NewGormMicrositeRepository(f.db).Save(ctx, site))

	w := f.do(get("/m/lumiere-garden"))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Weddings under the open sky")
	assert.Contains(t, body, "Floral Arch")
	assert.Contains(t, body, "Fresh peonies")
	assert.Contains(t, body, "Maison lumiere")

	w = f.do(get("/m/nothing-here"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no longer published")
}

func TestListingKeepsFilters(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/orders?page=2&status=pending&ignored=1", nil)

	filter := pageFilter(c)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, listPageSize, filter.PageSize)
	assert.Equal(t, "pending", filter.Filters["status"])

	l := newListing(c, []string{"O-1"}, 120, filter)
	assert.Equal(t, 3, l.TotalPages)
	assert.Equal(t, 1, l.Prev())
	assert.Equal(t, 3, l.Next())
	assert.Equal(t, "pending", l.Status)
	assert.Equal(t, "status=pending", string(l.Query))
}
