package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/assinaclub/ms-go-billing/app/controller"
	"github.com/assinaclub/ms-go-billing/app/gateway"
	"github.com/assinaclub/ms-go-billing/app/repository"
	"github.com/assinaclub/ms-go-billing/app/service"
	"github.com/assinaclub/ms-go-billing/app/types"
	"github.com/assinaclub/ms-go-billing/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the Echo HTTP server exposing the checkout and gateway webhook endpoints.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, billingService, cleanup := mustCreateBillingService()
	defer cleanup()

	billingController := controller.NewBillingController(billingService)
	e := setupHTTPServer(billingController)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(billingController *controller.BillingController) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/health", billingController.Health)

	orders := e.Group("/orders")
	orders.Use(requireRequestID())
	orders.POST("", billingController.CreateOrder)
	orders.GET("/:id", billingController.GetOrder)

	// The gateway signs nothing and sends no request id; the webhook
	// route stays outside the request-id requirement.
	webhooks := e.Group("/webhooks/gateway")
	webhooks.POST("", billingController.HandleGatewayWebhook)

	return e
}

func requireRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
			if requestID == "" {
				return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{OK: false, Message: "x-request-id header is required"})
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)
			return next(ctx)
		}
	}
}

func mustCreateBillingService() (*config.Config, *service.BillingService, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	gatewayClient, err := gateway.NewClient(gateway.Config{
		AccessToken:     cfg.Gateway.AccessToken,
		PublicKey:       cfg.Gateway.PublicKey,
		BaseURL:         cfg.Gateway.BaseURL,
		CurrencyID:      cfg.Gateway.CurrencyID,
		NotificationURL: cfg.Gateway.NotificationURL,
		SuccessURL:      cfg.Gateway.SuccessURL,
		FailureURL:      cfg.Gateway.FailureURL,
		PendingURL:      cfg.Gateway.PendingURL,
		HTTPTimeout:     cfg.Gateway.HTTPTimeout,
	})
	if err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to initialize gateway client")
	}

	billingService := service.NewBillingService(
		repository.NewOrderRepository(db),
		repository.NewInstallmentRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewGatewayPaymentRepository(db),
		gatewayClient,
		gateway.NewResolver(gatewayClient),
		cfg.Billing,
	)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, billingService, cleanup
}
