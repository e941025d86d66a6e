// Package queries contains the read use cases. Handlers read the tables
// directly with SQL and resolve operator usernames in bulk; they never load
// aggregates.
package queries

import (
	"context"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/operator"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// OperatorDirectory resolves operator ids to operators.
type OperatorDirectory interface {
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*operator.Operator, error)
}

// OperatorRef is a weak reference to an operator with its display name.
// Username is empty when the operator is unknown.
type OperatorRef struct {
	ID       kernel.UUID
	Username string
}

// OrderView is the read model of an order with its stages.
type OrderView struct {
	ID              kernel.UUID
	OrderName       string
	ClientName      string
	Status          order.Status
	CreatedAt       time.Time
	CompletedAt     *time.Time
	TotalDuration   *time.Duration
	ProgressPercent float64
	Stages          []StageView
}

type StageView struct {
	Index      int
	Name       string
	Status     order.StageStatus
	AssignedTo *OperatorRef
	StartTime  *time.Time
	EndTime    *time.Time
	Duration   *time.Duration
}

type measuredStage struct {
	completed bool
	duration  *time.Duration
}

func (m measuredStage) IsCompleted() bool { return m.completed }

func (m measuredStage) Duration() *time.Duration { return m.duration }

// orderViewReader loads OrderViews: one statement for the orders, one for
// all of their stages and one operator lookup.
type orderViewReader struct {
	db        *gorm.DB
	operators OperatorDirectory
	calc      services.DurationCalculator
}

func newOrderViewReader(db *gorm.DB, operators OperatorDirectory) orderViewReader {
	return orderViewReader{db: db, operators: operators, calc: services.NewDurationCalculator()}
}

// read returns the orders matching where, an SQL condition on the orders
// table that may be empty, newest first.
func (r orderViewReader) read(ctx context.Context, where string, args ...any) ([]OrderView, error) {
	stmt := `
		SELECT
			id,
			order_name,
			client_name,
			status,
			created_at,
			completed_at,
			total_duration_ms
		FROM orders`
	if where != "" {
		stmt += " WHERE " + where
	}
	stmt += " ORDER BY created_at DESC, id"

	rows, err := r.db.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			id          uuid.UUID
			view        OrderView
			status      int
			completedAt *time.Time
			totalMs     *int64
		)
		if err = rows.Scan(&id, &view.OrderName, &view.ClientName, &status,
			&view.CreatedAt, &completedAt, &totalMs); err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		view.Status = order.Status(status)
		view.CreatedAt = view.CreatedAt.UTC()
		view.CompletedAt = utc(completedAt)
		view.TotalDuration = millis(totalMs)
		view.Stages = make([]StageView, 0)

		index[id] = len(views)
		views = append(views, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(views) == 0 {
		return views, nil
	}

	if err = r.attachStages(ctx, views, index); err != nil {
		return nil, err
	}
	if err = r.resolveOperators(ctx, views); err != nil {
		return nil, err
	}

	for i := range views {
		if len(views[i].Stages) == 0 {
			continue
		}
		measured := make([]services.MeasuredStage, len(views[i].Stages))
		for j, s := range views[i].Stages {
			measured[j] = measuredStage{completed: s.Status == order.StageCompleted, duration: s.Duration}
		}
		if views[i].ProgressPercent, err = r.calc.ProgressPercent(measured); err != nil {
			return nil, err
		}
	}
	return views, nil
}

func (r orderViewReader) attachStages(ctx context.Context, views []OrderView, index map[uuid.UUID]int) error {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID.String())
	}

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			position,
			name,
			status,
			assigned_to,
			start_time,
			end_time,
			duration_ms
		FROM order_stages
		WHERE order_id = ANY(?::uuid[])
		ORDER BY order_id, position
	`, pq.Array(ids)).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID    uuid.UUID
			stage      StageView
			status     int
			assignedTo uuid.NullUUID
			start, end *time.Time
			durationMs *int64
		)
		if err = rows.Scan(&orderID, &stage.Index, &stage.Name, &status,
			&assignedTo, &start, &end, &durationMs); err != nil {
			return err
		}

		stage.Status = order.StageStatus(status)
		stage.StartTime = utc(start)
		stage.EndTime = utc(end)
		stage.Duration = millis(durationMs)
		if assignedTo.Valid {
			opID, idErr := kernel.UUIDFromBytes(assignedTo.UUID[:])
			if idErr != nil {
				return idErr
			}
			stage.AssignedTo = &OperatorRef{ID: opID}
		}

		i := index[orderID]
		views[i].Stages = append(views[i].Stages, stage)
	}
	return rows.Err()
}

func (r orderViewReader) resolveOperators(ctx context.Context, views []OrderView) error {
	refs := make([]*OperatorRef, 0)
	for i := range views {
		for j := range views[i].Stages {
			if ref := views[i].Stages[j].AssignedTo; ref != nil {
				refs = append(refs, ref)
			}
		}
	}
	return resolveUsernames(ctx, r.operators, refs)
}

// resolveUsernames fills in Username for every ref whose operator is known.
func resolveUsernames(ctx context.Context, operators OperatorDirectory, refs []*OperatorRef) error {
	if len(refs) == 0 {
		return nil
	}

	seen := make(map[kernel.UUID]struct{})
	ids := make([]kernel.UUID, 0)
	for _, ref := range refs {
		if _, ok := seen[ref.ID]; !ok {
			seen[ref.ID] = struct{}{}
			ids = append(ids, ref.ID)
		}
	}

	found, err := operators.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	names := make(map[kernel.UUID]string, len(found))
	for _, op := range found {
		names[op.ID()] = op.Username()
	}
	for _, ref := range refs {
		ref.Username = names[ref.ID]
	}
	return nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func millis(ms *int64) *time.Duration {
	if ms == nil {
		return nil
	}
	d := time.Duration(*ms) * time.Millisecond
	return &d
}
