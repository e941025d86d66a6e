package http

import (
	"context"
	"fmt"
	"net/http"

	"workorders/internal/core/application/usecases/commands"
	"workorders/internal/core/application/usecases/queries"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	StartStageHandler interface {
		Handle(ctx context.Context, cmd commands.StartStageCommand) error
	}
	CompleteStageHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteStageCommand) error
	}
	GetAllOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetAllOrdersQuery) ([]queries.OrderView, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
)

// Server handles the /api/v1 endpoints. Writes are delegated to the command
// handlers; every write answers with the order as read back afterwards.
type Server struct {
	// Command handlers
	createOrderHandler   CreateOrderHandler
	startStageHandler    StartStageHandler
	completeStageHandler CompleteStageHandler

	// Query handlers
	getAllOrdersHandler GetAllOrdersHandler
	getOrderHandler     GetOrderHandler

	policy OrderCreationPolicy
}

func NewServer(
	createOrderHandler CreateOrderHandler,
	startStageHandler StartStageHandler,
	completeStageHandler CompleteStageHandler,
	getAllOrdersHandler GetAllOrdersHandler,
	getOrderHandler GetOrderHandler,
	policy OrderCreationPolicy,
) *Server {
	return &Server{
		createOrderHandler:   createOrderHandler,
		startStageHandler:    startStageHandler,
		completeStageHandler: completeStageHandler,
		getAllOrdersHandler:  getAllOrdersHandler,
		getOrderHandler:      getOrderHandler,
		policy:               policy,
	}
}

// GetHealth handles GET /api/v1/health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, Health{Status: "ok"})
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	views, err := s.getAllOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetAllOrdersQuery())
	if err != nil {
		return err
	}

	response := make([]Order, len(views))
	for i, v := range views {
		response[i] = toOrder(v)
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	principal, ok := PrincipalFrom(ctx)
	if !ok {
		return ErrMissingToken
	}
	if !s.policy.Allows(principal.Role) {
		return fmt.Errorf("%w: %s cannot create orders", ErrForbiddenRole, principal.Role)
	}

	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return err
	}
	if err := ctx.Validate(&body); err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), body.OrderName, body.ClientName, principal.OperatorID)
	if err != nil {
		return err
	}
	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithOrder(ctx, http.StatusCreated, cmd.OrderID())
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return s.respondWithOrder(ctx, http.StatusOK, orderID)
}

// StartStage handles POST /api/v1/orders/{orderId}/stages/{stageIndex}/start.
func (s *Server) StartStage(ctx echo.Context) error {
	principal, ok := PrincipalFrom(ctx)
	if !ok {
		return ErrMissingToken
	}

	orderID, stageIndex, err := bindStage(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewStartStageCommand(orderID, stageIndex, principal.OperatorID)
	if err != nil {
		return err
	}
	if err = s.startStageHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithOrder(ctx, http.StatusOK, orderID)
}

// CompleteStage handles POST /api/v1/orders/{orderId}/stages/{stageIndex}/complete.
func (s *Server) CompleteStage(ctx echo.Context) error {
	principal, ok := PrincipalFrom(ctx)
	if !ok {
		return ErrMissingToken
	}

	orderID, stageIndex, err := bindStage(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCompleteStageCommand(orderID, stageIndex, principal.OperatorID)
	if err != nil {
		return err
	}
	if err = s.completeStageHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) respondWithOrder(ctx echo.Context, status int, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(status, toOrder(view))
}

func bindOrderID(ctx echo.Context) (kernel.UUID, error) {
	var orderID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	return kernel.UUIDFromBytes(orderID[:])
}

func bindStage(ctx echo.Context) (kernel.UUID, int, error) {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return kernel.UUID{}, 0, err
	}

	var stageIndex int
	err = runtime.BindStyledParameterWithOptions("simple", "stageIndex", ctx.Param("stageIndex"), &stageIndex,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter stageIndex: %s", err))
	}
	if stageIndex < 0 {
		return kernel.UUID{}, 0, errs.NewValueIsOutOfRangeError("stageIndex", stageIndex, 0, "unbounded")
	}

	return orderID, stageIndex, nil
}
