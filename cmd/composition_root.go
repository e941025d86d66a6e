package cmd

import (
	"context"
	"errors"
	"log/slog"

	"workorders/api"
	httpin "workorders/internal/adapters/in/http"
	"workorders/internal/adapters/out/breaker"
	"workorders/internal/adapters/out/fanout"
	"workorders/internal/adapters/out/kafka"
	"workorders/internal/adapters/out/metrics"
	"workorders/internal/adapters/out/postgres"
	"workorders/internal/adapters/out/postgres/operatorrepo"
	"workorders/internal/core/application/usecases/commands"
	"workorders/internal/core/application/usecases/queries"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/core/ports"
	"workorders/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *slog.Logger

	template  order.StageTemplate
	metrics   *metrics.Metrics
	publisher ports.OrderChangedPublisher
	producer  *kafka.OrderChangedProducer
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, clock kernel.Clock, logger *slog.Logger) (*CompositionRoot, error) {
	template, err := order.NewStageTemplate(configs.StageNames, configs.StagesSequential)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	publisher := fanout.New(m).Add("metrics", m)

	var producer *kafka.OrderChangedProducer
	if brokers := configs.KafkaBrokers(); len(brokers) > 0 {
		producer = kafka.NewOrderChangedProducer(brokers, configs.KafkaOrderChangedTopic)
		publisher.Add("kafka", breaker.New(producer, breaker.DefaultConfig("kafka"), logger))
	} else {
		logger.Info("KAFKA_HOST is not set, order change notifications go to metrics only")
	}

	return &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      clock,
		logger:     logger,
		template:   template,
		metrics:    m,
		publisher:  publisher,
		producer:   producer,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) operatorUoWFactory() commands.OperatorUoWFactory {
	return FuncOperatorUoWFactory(func() commands.OperatorUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.template, c.clock, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateStartStageCommandHandler() commands.StartStageCommandHandler {
	return commands.NewStartStageCommandHandler(c.orderUoWFactory(), c.clock, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCompleteStageCommandHandler() commands.CompleteStageCommandHandler {
	return commands.NewCompleteStageCommandHandler(c.orderUoWFactory(), c.clock, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRegisterOperatorCommandHandler() commands.RegisterOperatorCommandHandler {
	return commands.NewRegisterOperatorCommandHandler(c.operatorUoWFactory())
}

func (c *CompositionRoot) CreateGetAllOrdersQueryHandler() queries.GetAllOrdersQueryHandler {
	return queries.NewGetAllOrdersQueryHandler(c.gormDB, operatorrepo.NewGormOperatorRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, operatorrepo.NewGormOperatorRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetStalledStagesQueryHandler() queries.GetStalledStagesQueryHandler {
	return queries.NewGetStalledStagesQueryHandler(c.gormDB, operatorrepo.NewGormOperatorRepository(c.gormDB))
}

// CreateHTTPServer loads the OpenAPI document and builds the router with
// every endpoint wired to its use case.
func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*echo.Echo, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err = api.RegisterSwagger(doc); err != nil {
		return nil, err
	}
	validate, err := httpin.ValidateRequests(doc)
	if err != nil {
		return nil, err
	}

	createOrder := c.CreateCreateOrderCommandHandler()
	startStage := c.CreateStartStageCommandHandler()
	completeStage := c.CreateCompleteStageCommandHandler()
	registerOperator := c.CreateRegisterOperatorCommandHandler()

	server := httpin.NewServer(
		&createOrder,
		&startStage,
		&completeStage,
		c.CreateGetAllOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		httpin.NewOrderCreationPolicy(c.configs.OrderCreationDeniedRoles...),
	)

	return httpin.NewEcho(httpin.Options{
		Server:           server,
		Authenticate:     httpin.Authenticate([]byte(c.configs.JWTSecret), &registerOperator),
		ValidateRequests: validate,
		Metrics:          c.metrics.Handler(),
		OpenAPIYAML:      api.YAML(),
		Logger:           c.logger,
	}), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	stalled := jobs.NewStalledStagesJob(
		c.CreateGetStalledStagesQueryHandler(),
		c.metrics,
		c.clock,
		c.configs.StalledStageThreshold,
		c.configs.StalledStageSchedule,
		c.logger,
	)
	return jobs.NewJobManager().Add("stalled stages", stalled)
}

// Close releases the connections owned by the root.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.producer != nil {
		errs = append(errs, c.producer.Close())
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	} else {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOperatorUoWFactory func() commands.OperatorUoW

func (f FuncOperatorUoWFactory) Create() commands.OperatorUoW {
	return f()
}
