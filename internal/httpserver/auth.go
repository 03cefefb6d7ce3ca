package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/arzonmarket/arzon-bot/internal/hash"
	"github.com/arzonmarket/arzon-bot/internal/logging"
)

const accessTTL = 12 * time.Hour

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthHTTP handles the admin panel login. There is a single operator
// account configured through the environment; no user self-service here.
type AuthHTTP struct {
	JWTSecret    []byte
	Login        string
	PasswordHash string
}

func (h *AuthHTTP) LoginHandler(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_login")

	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Login != h.Login || !hash.CheckPassword(h.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "login", req.Login)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid login or password")
	}

	exp := time.Now().Add(accessTTL)
	token, err := h.createToken(exp)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "token error")
	}

	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	l.Info("login_successful")
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

func (h *AuthHTTP) createToken(exp time.Time) (string, error) {
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   h.Login,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.JWTSecret)
}

// RequireAdmin guards the admin API. The token is taken from the cookie
// set at login or from a Bearer header, whichever is present.
func (h *AuthHTTP) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := ""
		if cookie, err := c.Cookie("accessToken"); err == nil {
			tokenStr = cookie.Value
		}
		if tokenStr == "" {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if len(auth) > 7 && auth[:7] == "Bearer " {
				tokenStr = auth[7:]
			}
		}
		if tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := claimsFromToken(tokenStr, h.JWTSecret)
		if err != nil || claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set("admin", claims.Subject)
		return next(c)
	}
}

func claimsFromToken(tokenStr string, secret []byte) (*AdminClaims, error) {
	var claims AdminClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}
