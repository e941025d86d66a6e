package http

import (
	"time"

	"workorders/internal/core/application/usecases/queries"
)

// The types below mirror the schemas of api/openapi.yml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Health struct {
	Status string `json:"status"`
}

type NewOrder struct {
	OrderName  string `json:"orderName" validate:"required,notblank,max=200"`
	ClientName string `json:"clientName" validate:"required,notblank,max=200"`
}

type OperatorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Stage struct {
	Index      int          `json:"index"`
	Name       string       `json:"name"`
	Status     string       `json:"status"`
	AssignedTo *OperatorRef `json:"assignedTo,omitempty"`
	StartTime  *time.Time   `json:"startTime,omitempty"`
	EndTime    *time.Time   `json:"endTime,omitempty"`
	DurationMs *int64       `json:"durationMs,omitempty"`
}

type Order struct {
	ID              string     `json:"id"`
	OrderName       string     `json:"orderName"`
	ClientName      string     `json:"clientName"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	TotalDurationMs *int64     `json:"totalDurationMs,omitempty"`
	ProgressPercent float64    `json:"progressPercent"`
	Stages          []Stage    `json:"stages"`
}

func toOrder(v queries.OrderView) Order {
	stages := make([]Stage, len(v.Stages))
	for i, s := range v.Stages {
		stages[i] = Stage{
			Index:      s.Index,
			Name:       s.Name,
			Status:     s.Status.String(),
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			DurationMs: millis(s.Duration),
		}
		if s.AssignedTo != nil {
			stages[i].AssignedTo = &OperatorRef{ID: s.AssignedTo.ID.String(), Username: s.AssignedTo.Username}
		}
	}

	return Order{
		ID:              v.ID.String(),
		OrderName:       v.OrderName,
		ClientName:      v.ClientName,
		Status:          v.Status.String(),
		CreatedAt:       v.CreatedAt,
		CompletedAt:     v.CompletedAt,
		TotalDurationMs: millis(v.TotalDuration),
		ProgressPercent: v.ProgressPercent,
		Stages:          stages,
	}
}

func millis(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	ms := d.Milliseconds()
	return &ms
}
