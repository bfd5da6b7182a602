package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/repo"
	"github.com/motorepuestos/shop/internal/service"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.GormRepo
	Cart *CartHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	r := repo.New(db)
	return &testEnv{
		T:    t,
		E:    echo.New(),
		Repo: r,
		Cart: &CartHTTP{Svc: &service.CartService{Repo: r}},
	}
}

func (env *testEnv) seedProduct(mutate func(*models.Product)) *models.Product {
	env.T.Helper()

	p := &models.Product{
		Name:     "Kit de pistones 150cc",
		SKU:      "MOT-KP-150",
		Price:    decimal.NewFromInt(100),
		Brand:    "Italika",
		Category: models.CategoryMotor,
		Stock:    10,
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(env.T, env.Repo.DB.Create(p).Error)
	return p
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}
