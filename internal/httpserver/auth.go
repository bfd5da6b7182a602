package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/motorepuestos/shop/internal/hash"
	"github.com/motorepuestos/shop/internal/logging"
	authmw "github.com/motorepuestos/shop/internal/middleware/auth"
	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/repo"
	"github.com/motorepuestos/shop/internal/tokens"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthHTTP struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	if _, err := h.Repo.GetUserByEmail(ctx, req.Email); err == nil {
		l.Warn("register_error", "status", 409, "reason", "email taken")
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil || !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_error", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := h.issueTokens(c, user); err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

// Logout revokes every live refresh token of the user and clears the
// auth cookies. The guest cookie is left alone: the guest cart must
// survive a login/logout round trip untouched.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if cookie, err := c.Cookie(authmw.RefreshCookie); err == nil && cookie.Value != "" {
		if claims, err := tokens.RefreshClaimsFromToken(cookie.Value, h.RefreshSecret); err == nil {
			if userID, err := uuid.Parse(claims.Subject); err == nil {
				if err := h.Repo.RevokeRefreshTokens(ctx, userID); err != nil {
					l.Error("logout_error", "error", err)
				}
			}
		}
	}

	authmw.ClearAuthCookies(c)
	l.Info("logout_success")
	return c.JSON(http.StatusOK, "logged out")
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie(authmw.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	claims, err := tokens.RefreshClaimsFromToken(cookie.Value, h.RefreshSecret)
	if err != nil || claims == nil {
		authmw.ClearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	stored, err := h.Repo.GetRefreshToken(ctx, cookie.Value)
	if err != nil || stored.Revoked || stored.ExpiresAt.Before(time.Now().UTC()) {
		authmw.ClearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token revoked")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		authmw.ClearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	user, err := h.Repo.GetUser(ctx, userID)
	if err != nil {
		authmw.ClearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}

	if err := h.Repo.RevokeRefreshTokens(ctx, userID); err != nil {
		l.Error("refresh_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := h.issueTokens(c, user); err != nil {
		l.Error("refresh_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("refresh_success", "user_id", userID)
	return c.JSON(http.StatusOK, "tokens refreshed")
}

func (h *AuthHTTP) issueTokens(c echo.Context, user *models.User) error {
	now := time.Now().UTC()
	accessExp := now.Add(accessTTL)
	refreshExp := now.Add(refreshTTL)

	access, err := tokens.CreateAccessToken(h.JWTSecret, user.ID.String(), user.Role, accessExp)
	if err != nil {
		return err
	}
	refresh, err := tokens.CreateRefreshToken(h.RefreshSecret, user.ID.String(), refreshExp)
	if err != nil {
		return err
	}

	if err := h.Repo.SaveRefreshToken(c.Request().Context(), &models.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	}); err != nil {
		return err
	}

	c.SetCookie(authmw.CreateCookie(authmw.AccessCookie, access, "/", accessExp))
	c.SetCookie(authmw.CreateCookie(authmw.RefreshCookie, refresh, "/", refreshExp))
	return nil
}
