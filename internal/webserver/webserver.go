package webserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talkincode/bannerstock/internal/app"
)

// AppContextKey is the echo context key the application is bound to.
const AppContextKey = "bannerstock_app"

var server *WebServer

// WebServer hosts the admin API.
type WebServer struct {
	root *echo.Echo
	api  *echo.Group
	app  *app.Application
}

// Init builds the package-level server instance. Route registration
// helpers are usable afterwards.
func Init(application *app.Application) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, application)
			start := time.Now()
			err := next(c)
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	})

	server = &WebServer{root: e, api: e.Group("/api"), app: application}
	return server
}

// GetApp fetches the application bound to the request context.
func GetApp(c echo.Context) *app.Application {
	return c.Get(AppContextKey).(*app.Application)
}

// Listen blocks serving the admin API.
func Listen() error {
	cfg := server.app.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("admin api listening", zap.String("addr", addr))
	return server.root.Start(addr)
}

// Shutdown stops the server gracefully.
func Shutdown(ctx context.Context) error {
	return server.root.Shutdown(ctx)
}

// Echo exposes the underlying engine; tests drive it directly.
func Echo() *echo.Echo {
	return server.root
}

// Route registration helpers used by adminapi.

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
