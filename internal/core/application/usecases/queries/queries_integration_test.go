package queries_test

import (
	"context"
	"testing"
	"time"

	adapter "workorders/internal/adapters/out/postgres"
	"workorders/internal/adapters/out/postgres/operatorrepo"
	"workorders/internal/adapters/out/postgres/orderrepo"
	"workorders/internal/adapters/out/postgres/pgtest"
	"workorders/internal/core/application/usecases/queries"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/operator"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var base = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

type QueriesIntegrationTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	orderRepo    *orderrepo.GormOrderRepository
	operatorRepo *operatorrepo.GormOperatorRepository
	alice        *operator.Operator
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
	suite.orderRepo = orderrepo.NewGormOrderRepository(db)
	suite.operatorRepo = operatorrepo.NewGormOperatorRepository(db)
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(adapter.Truncate(suite.db))

	alice, err := operator.NewOperator(kernel.NewUUID(), "alice", operator.RoleOperator)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.operatorRepo.Upsert(ctx, alice))
	suite.alice = alice
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) addOrder(name string, createdAt time.Time, mutate func(o *order.Order)) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), name, "Acme", order.DefaultStageTemplate(), createdAt)
	suite.Require().NoError(err)
	if mutate != nil {
		mutate(o)
	}
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func (suite *QueriesIntegrationTestSuite) TestGetAllOrders_NewestFirstWithUsernames() {
	ctx := context.Background()
	unknown := kernel.NewUUID()

	older := suite.addOrder("older", base, func(o *order.Order) {
		suite.Require().NoError(o.StartStage(0, suite.alice.ID(), base))
		suite.Require().NoError(o.CompleteStage(0, base.Add(1500*time.Millisecond)))
		suite.Require().NoError(o.StartStage(1, unknown, base.Add(2*time.Second)))
	})
	newer := suite.addOrder("newer", base.Add(time.Hour), nil)

	h := queries.NewGetAllOrdersQueryHandler(suite.db, suite.operatorRepo)
	views, err := h.Handle(ctx, queries.NewGetAllOrdersQuery())
	suite.Require().NoError(err)

	suite.Require().Len(views, 2)
	suite.Equal(newer.ID(), views[0].ID)
	suite.Equal(older.ID(), views[1].ID)

	suite.Equal(order.New, views[0].Status)
	suite.InDelta(0.0, views[0].ProgressPercent, 1e-9)

	v := views[1]
	suite.Equal(order.InProgress, v.Status)
	suite.Require().Len(v.Stages, 8)
	suite.InDelta(12.5, v.ProgressPercent, 1e-9)
	suite.Equal(order.StageCompleted, v.Stages[0].Status)
	suite.Equal(1500*time.Millisecond, *v.Stages[0].Duration)
	suite.Equal("alice", v.Stages[0].AssignedTo.Username)
	suite.Equal(unknown, v.Stages[1].AssignedTo.ID)
	suite.Empty(v.Stages[1].AssignedTo.Username)
	suite.Nil(v.Stages[2].AssignedTo)
	suite.Nil(v.CompletedAt)
}

func (suite *QueriesIntegrationTestSuite) TestGetAllOrders_Empty() {
	h := queries.NewGetAllOrdersQueryHandler(suite.db, suite.operatorRepo)
	views, err := h.Handle(context.Background(), queries.NewGetAllOrdersQuery())

	suite.Require().NoError(err)
	suite.NotNil(views)
	suite.Empty(views)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder() {
	ctx := context.Background()
	o := suite.addOrder("single", base, nil)
	suite.addOrder("other", base, nil)

	h := queries.NewGetOrderQueryHandler(suite.db, suite.operatorRepo)
	q, _ := queries.NewGetOrderQuery(o.ID())
	view, err := h.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal("single", view.OrderName)
	suite.Len(view.Stages, 8)

	missing, _ := queries.NewGetOrderQuery(kernel.NewUUID())
	_, err = h.Handle(ctx, missing)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetStalledStages() {
	ctx := context.Background()
	stalled := suite.addOrder("stalled", base, func(o *order.Order) {
		suite.Require().NoError(o.StartStage(2, suite.alice.ID(), base))
		suite.Require().NoError(o.StartStage(3, suite.alice.ID(), base.Add(50*time.Hour)))
	})
	suite.addOrder("finished stage", base, func(o *order.Order) {
		suite.Require().NoError(o.StartStage(0, suite.alice.ID(), base))
		suite.Require().NoError(o.CompleteStage(0, base.Add(time.Minute)))
	})

	h := queries.NewGetStalledStagesQueryHandler(suite.db, suite.operatorRepo)
	q, _ := queries.NewGetStalledStagesQuery(base.Add(24 * time.Hour))
	views, err := h.Handle(ctx, q)
	suite.Require().NoError(err)

	suite.Require().Len(views, 1)
	suite.Equal(stalled.ID(), views[0].OrderID)
	suite.Equal(2, views[0].StageIndex)
	suite.Equal(order.DefaultStageNames[2], views[0].StageName)
	suite.Equal("alice", views[0].AssignedTo.Username)
	suite.True(views[0].StartTime.Equal(base))
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
