package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_service/internal/logging"
	"github.com/Skotchmaster/product_service/internal/tokens"
)

type TokenVerifier interface {
	Verify(token string) (*tokens.Claims, error)
}

type BearerAuth struct {
	Tokens TokenVerifier
}

func NewBearerAuth(v TokenVerifier) *BearerAuth {
	return &BearerAuth{Tokens: v}
}

// RequireBearer answers 401 when the Authorization header is absent and 403
// when it is present but does not carry a valid token.
func (m *BearerAuth) RequireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		l := logging.FromContext(req.Context())

		header := req.Header.Get(echo.HeaderAuthorization)
		if header == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing authorization header")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
		}

		raw, ok := bearerToken(header)
		if !ok {
			l.Warn("auth_failed", "status", 403, "reason", "malformed authorization header")
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		claims, err := m.Tokens.Verify(raw)
		if err != nil || claims == nil {
			l.Warn("auth_failed", "status", 403, "reason", "invalid or expired token", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		id := Identity{UserID: claims.UserID, Username: claims.Username}
		ctx := IntoContext(req.Context(), id)
		ctx = logging.IntoContext(ctx, l.With("user_id", id.UserID))
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
