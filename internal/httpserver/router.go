package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	middleware "github.com/Skotchmaster/product_service/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/product_service/internal/middleware/logging"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	Bearer         *middleware.BearerAuth
	LoginLimiter   echo.MiddlewareFunc
}

// TrustProxies makes the client address come from X-Forwarded-For, but only
// for hops inside the given CIDRs. An empty list keeps the peer address.
func TrustProxies(e *echo.Echo, cidrs []string) error {
	if len(cidrs) == 0 {
		e.IPExtractor = echo.ExtractIPDirect()
		return nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	e.IPExtractor = echo.ExtractIPFromXFFHeader(opts...)
	return nil
}

// NewEcho builds the echo instance with the middleware chain every route shares.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	// forwarding headers are ignored until TrustProxies names the proxies
	e.IPExtractor = echo.ExtractIPDirect()

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLoggerWithConfig(loggingmw.Config{Logger: logger, Skipper: loggingmw.SkipHealth}))
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.CORS())
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	registerDocs(e)

	loginMW := []echo.MiddlewareFunc{}
	if d.LoginLimiter != nil {
		loginMW = append(loginMW, d.LoginLimiter)
	}
	e.POST("/api/auth/login", d.AuthHandler.Login, loginMW...)

	products := e.Group("/api/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	requireBearer := d.Bearer.RequireBearer
	products.POST("", d.ProductHandler.CreateProduct, requireBearer)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, requireBearer)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, requireBearer)

	e.GET("/api/myproducts", d.ProductHandler.MyProducts, requireBearer)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.NoContent(http.StatusOK)
}
