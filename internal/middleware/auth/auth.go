package authmw

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/motorepuestos/shop/internal/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
	GuestCookie   = "guestToken"
)

type Middleware struct {
	JWTSecret []byte
}

func New(secret []byte) *Middleware {
	return &Middleware{JWTSecret: secret}
}

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func ClearAuthCookies(c echo.Context) {
	expired := time.Unix(0, 0)
	c.SetCookie(CreateCookie(AccessCookie, "", "/", expired))
	c.SetCookie(CreateCookie(RefreshCookie, "", "/", expired))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.accessClaims(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.accessClaims(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// ResolveOwner picks the single cart owner key for the request: a valid
// access token wins, otherwise the guest cookie (issued here on first
// touch). Guest and user keys never mix, so login or logout swaps the
// active cart wholesale.
func (m *Middleware) ResolveOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := m.accessClaims(c); err == nil {
			setUserContext(c, claims)
			c.Set("owner_key", "user:"+claims.Subject)
			return next(c)
		}

		guest, err := c.Cookie(GuestCookie)
		if err != nil || guest.Value == "" {
			token := uuid.NewString()
			c.SetCookie(CreateCookie(GuestCookie, token, "/", time.Now().Add(30*24*time.Hour)))
			c.Set("owner_key", "guest:"+token)
			return next(c)
		}

		c.Set("owner_key", "guest:"+guest.Value)
		return next(c)
	}
}

func (m *Middleware) accessClaims(c echo.Context) (*tokens.AccessClaims, error) {
	cookie, err := c.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		return nil, echo.ErrUnauthorized
	}
	claims, err := tokens.AccessClaimsFromToken(cookie.Value, m.JWTSecret)
	if err != nil || claims == nil {
		return nil, echo.ErrUnauthorized
	}
	return claims, nil
}

// OwnerKey reads the owner key ResolveOwner stored on the context.
func OwnerKey(c echo.Context) string {
	if v, ok := c.Get("owner_key").(string); ok {
		return v
	}
	return ""
}
