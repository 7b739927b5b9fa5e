package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/openlabs-org/labops/auth"
	"github.com/openlabs-org/labops/authz"
	"github.com/openlabs-org/labops/config"
	"github.com/openlabs-org/labops/errors"
)

func Start(e *echo.Echo, cfg *config.Config, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(fmt.Sprintf(":%v", cfg.HttpPort)); err != nil && err != http.ErrServerClosed {
					fmt.Println(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func SetReady(healthCheck *HealthCheck, db *mongo.Database, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Client().Ping(ctx, nil); err != nil {
				return err
			}

			// It's important this is set after mongo is initialized, which is ensured
			// by taking a dependency on mongo in the constructor, because lifecycle hooks
			// are executed in topological order
			healthCheck.SetReady(true)
			return nil
		},
		OnStop: nil,
	})
}

func NewServer(handler *Handler, healthCheck *HealthCheck, authorizer authz.RequestAuthorizer, authenticator auth.Authenticator, logger *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	// Skip auth and logging for the readiness probe
	skipper := RouteSkipper([]string{"/ready"})
	authMiddleware := auth.NewAuthMiddleware(authenticator, auth.AuthMiddlewareOpts{
		Skipper: skipper,
	})
	authzMiddleware := authz.NewAuthzMiddleware(authorizer, authz.AuthzMiddlewareOpts{
		Skipper: skipper,
	})

	e.Use(middleware.Recover())
	e.Use(echozap.ZapLogger(logger))
	e.Use(authMiddleware)
	e.Use(authzMiddleware)

	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	RegisterHandlers(e, handler)

	return e, nil
}

func RegisterHandlers(e *echo.Echo, handler *Handler) {
	v1 := e.Group("/v1")

	v1.GET("/patients", handler.ListPatients)
	v1.POST("/patients", handler.CreatePatient)
	v1.GET("/patients/:patientId", handler.GetPatient)
	v1.PUT("/patients/:patientId", handler.UpdatePatient)
	v1.DELETE("/patients/:patientId", handler.RemovePatient)

	v1.GET("/catalog/tests", handler.ListTestDefinitions)
	v1.POST("/catalog/tests", handler.CreateTestDefinition)
	v1.GET("/catalog/tests/:testCode", handler.GetTestDefinition)
	v1.PUT("/catalog/tests/:testCode", handler.UpdateTestDefinition)
	v1.DELETE("/catalog/tests/:testCode", handler.DisableTestDefinition)

	v1.GET("/orders", handler.ListOrders)
	v1.POST("/orders", handler.CreateOrder)
	v1.GET("/orders/:orderId", handler.GetOrder)
	v1.DELETE("/orders/:orderId", handler.RemoveOrder)
	v1.GET("/orders/:orderId/samples", handler.ListOrderSamples)

	v1.POST("/orders/:orderId/tests/:testCode/rejection", handler.RejectTestResult)
	v1.GET("/orders/:orderId/tests/:testCode/rejection/options", handler.GetRejectionOptions)
	v1.POST("/orders/:orderId/tests/:testCode/escalation", handler.ResolveEscalation)
	v1.GET("/escalations", handler.ListEscalations)

	v1.GET("/workflow/counts", handler.GetWorkflowCounts)
	v1.GET("/workflow/trends", handler.GetWorkflowTrends)
	v1.GET("/workflow/report", handler.GetWorkflowReport)

	v1.GET("/alerts/critical", handler.ListCriticalAlerts)
	v1.POST("/alerts/critical/notify", handler.NotifyCriticalAlert)
	v1.POST("/alerts/critical/acknowledge", handler.AcknowledgeCriticalAlert)
}
