package api

import (
	"go.uber.org/fx"

	"github.com/openlabs-org/labops/alerts"
	"github.com/openlabs-org/labops/auth"
	"github.com/openlabs-org/labops/authz"
	"github.com/openlabs-org/labops/catalog"
	"github.com/openlabs-org/labops/config"
	"github.com/openlabs-org/labops/logger"
	"github.com/openlabs-org/labops/orders"
	"github.com/openlabs-org/labops/outbox"
	"github.com/openlabs-org/labops/patients"
	"github.com/openlabs-org/labops/rejection"
	"github.com/openlabs-org/labops/store"
	"github.com/openlabs-org/labops/workflow"
)

// Dependencies is the provider graph shared by the server and the CLI.
// The server adds the echo wiring on top of it in MainLoop.
func Dependencies() []fx.Option {
	return []fx.Option{fx.Provide(
		logger.NewProductionLogger,
		logger.Suggar,
		config.NewFromEnv,
		store.NewConfig,
		store.GetConnectionString,
		store.NewClient,
		store.NewDatabase,
		store.NewTransactionRunner,
		outbox.NewRepository,
		patients.NewRepository,
		patients.NewService,
		catalog.NewRepository,
		func(repo catalog.Repository) catalog.Service { return repo },
		orders.NewRepository,
		func(repo orders.Repository) orders.Service { return repo },
		orders.NewSampleRepository,
		func(repo orders.SampleRepository) orders.SampleService { return repo },
		orders.NewSnapshotService,
		rejection.NewLimits,
		rejection.NewExecutor,
		rejection.NewResolver,
		workflow.NewService,
		alerts.NewService,
		auth.NewAuthenticator,
		authz.NewRequestAuthorizer,
		NewHealthCheck,
		NewHandler,
	)}
}

func MainLoop() {
	opts := append(
		Dependencies(),
		fx.Provide(NewServer),
		fx.Invoke(SetReady),
		fx.Invoke(Start),
	)
	fx.New(opts...).Run()
}
