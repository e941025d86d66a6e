package jobs

import (
	"context"
	"log/slog"
	"time"

	"workorders/internal/core/application/usecases/queries"
	"workorders/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// DefaultStalledStagesSchedule runs the watchdog at the start of every minute.
const DefaultStalledStagesSchedule = "0 * * * * *"

type StalledStagesFinder interface {
	Handle(ctx context.Context, query queries.GetStalledStagesQuery) ([]queries.StalledStageView, error)
}

type StalledStagesGauge interface {
	SetStalledStages(n int)
}

// StalledStagesJob reports stages that have been in progress for longer
// than the configured threshold.
type StalledStagesJob struct {
	finder    StalledStagesFinder
	gauge     StalledStagesGauge
	clock     kernel.Clock
	threshold time.Duration
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewStalledStagesJob(
	finder StalledStagesFinder,
	gauge StalledStagesGauge,
	clock kernel.Clock,
	threshold time.Duration,
	schedule string,
	logger *slog.Logger,
) *StalledStagesJob {
	if schedule == "" {
		schedule = DefaultStalledStagesSchedule
	}
	return &StalledStagesJob{
		finder:    finder,
		gauge:     gauge,
		clock:     clock,
		threshold: threshold,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "stalled_stages_job"),
	}
}

// Start registers the check on the job's schedule and starts the scheduler.
func (j *StalledStagesJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Stalled stages job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stalled stages job started",
		"schedule", j.schedule, "threshold", j.threshold.String())
	return nil
}

// Stop stops the scheduler. A check that is already running is not waited for.
func (j *StalledStagesJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stalled stages job stopped")
}

// Run performs one check and returns the number of stalled stages found.
func (j *StalledStagesJob) Run(ctx context.Context) (int, error) {
	query, err := queries.NewGetStalledStagesQuery(j.clock.Now().Add(-j.threshold))
	if err != nil {
		return 0, err
	}

	stalled, err := j.finder.Handle(ctx, query)
	if err != nil {
		return 0, err
	}

	now := j.clock.Now()
	for _, s := range stalled {
		j.logger.WarnContext(ctx, "Stage is stalled",
			"order_id", s.OrderID.String(),
			"order_name", s.OrderName,
			"stage_index", s.StageIndex,
			"stage_name", s.StageName,
			"assigned_to", s.AssignedTo.ID.String(),
			"username", s.AssignedTo.Username,
			"running_for", now.Sub(s.StartTime).Truncate(time.Second).String(),
		)
	}

	j.gauge.SetStalledStages(len(stalled))
	return len(stalled), nil
}
