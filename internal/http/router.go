package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Deps — зависимости роутера. Store и Gatherer необязательны.
type Deps struct {
	Service WalletService
	// Store — для /readyz
	Store         Pinger
	Gatherer      prometheus.Gatherer
	Logger        *slog.Logger
	EnableSwagger bool
}

func Router(d Deps) *echo.Echo {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(requestLogger(log))
	e.HTTPErrorHandler = DefaultHTTPErrorHandler

	// Swagger UI (включается флагом ENABLE_SWAGGER=true)
	if d.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := e.Group("/api/v1")
	v1.GET("/healthz", Healthz)
	v1.GET("/readyz", Readyz(d.Store))
	v1.GET("/wallet/links/:user", Links(d.Service))
	v1.GET("/wallet/verify", VerifyJSON(d.Service))

	w := e.Group("/wallet")
	w.GET("", WalletAction(d.Service))
	w.GET("/apple/:user", IssueApple(d.Service))
	w.GET("/google/:user", IssueGoogle(d.Service))
	w.GET("/verify", Verify(d.Service))
	w.GET("/buttons/:user", Buttons(d.Service))

	return e
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}
