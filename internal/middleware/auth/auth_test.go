package authmw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorepuestos/shop/internal/tokens"
)

func newContext(t *testing.T, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func passthrough(c echo.Context) error { return nil }

func TestResolveOwnerIssuesGuestCookie(t *testing.T) {
	t.Parallel()

	m := New([]byte("test-secret"))
	c, rec := newContext(t)

	require.NoError(t, m.ResolveOwner(passthrough)(c))

	owner := OwnerKey(c)
	require.True(t, strings.HasPrefix(owner, "guest:"), "got %q", owner)

	var issued *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == GuestCookie {
			issued = ck
		}
	}
	require.NotNil(t, issued, "first touch must set the guest cookie")
	assert.Equal(t, "guest:"+issued.Value, owner)
}

func TestResolveOwnerReusesGuestCookie(t *testing.T) {
	t.Parallel()

	m := New([]byte("test-secret"))
	c, _ := newContext(t, &http.Cookie{Name: GuestCookie, Value: "abc123"})

	require.NoError(t, m.ResolveOwner(passthrough)(c))
	assert.Equal(t, "guest:abc123", OwnerKey(c))
}

func TestResolveOwnerPrefersAccessToken(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	m := New(secret)
	userID := uuid.NewString()

	access, err := tokens.CreateAccessToken(secret, userID, "user", time.Now().Add(time.Minute))
	require.NoError(t, err)

	// Both cookies present: the authenticated key wins, the guest cart
	// stays parked under its own key.
	c, _ := newContext(t,
		&http.Cookie{Name: AccessCookie, Value: access},
		&http.Cookie{Name: GuestCookie, Value: "abc123"},
	)

	require.NoError(t, m.ResolveOwner(passthrough)(c))
	assert.Equal(t, "user:"+userID, OwnerKey(c))
}

func TestResolveOwnerIgnoresForgedToken(t *testing.T) {
	t.Parallel()

	m := New([]byte("test-secret"))

	forged, err := tokens.CreateAccessToken([]byte("other-secret"), uuid.NewString(), "admin", time.Now().Add(time.Minute))
	require.NoError(t, err)

	c, _ := newContext(t, &http.Cookie{Name: AccessCookie, Value: forged})

	require.NoError(t, m.ResolveOwner(passthrough)(c))
	assert.True(t, strings.HasPrefix(OwnerKey(c), "guest:"))
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	m := New(secret)

	user, err := tokens.CreateAccessToken(secret, uuid.NewString(), "user", time.Now().Add(time.Minute))
	require.NoError(t, err)
	admin, err := tokens.CreateAccessToken(secret, uuid.NewString(), "admin", time.Now().Add(time.Minute))
	require.NoError(t, err)

	cNone, _ := newContext(t)
	errNone := m.RequireAdmin(passthrough)(cNone)
	he, ok := errNone.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	cUser, _ := newContext(t, &http.Cookie{Name: AccessCookie, Value: user})
	errUser := m.RequireAdmin(passthrough)(cUser)
	he, ok = errUser.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	cAdmin, _ := newContext(t, &http.Cookie{Name: AccessCookie, Value: admin})
	require.NoError(t, m.RequireAdmin(passthrough)(cAdmin))
	assert.Equal(t, "admin", cAdmin.Get("role"))
}
