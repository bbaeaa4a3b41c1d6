package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/rentgear/rentgear-backend/pkg/dates"
	"github.com/rentgear/rentgear-backend/pkg/db/models"
	"github.com/rentgear/rentgear-backend/pkg/enums"
	"github.com/rentgear/rentgear-backend/pkg/logger"
)

// OverdueJobParams configure the overdue sweep.
type OverdueJobParams struct {
	Logger *logger.Logger
	Repo   overdueRepository
}

type overdueRepository interface {
	ListUnreturnedEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReservationStatus) error
}

// NewOverdueJob builds the job that flags unreturned rentals past their end
// date as overdue. Both active and delivered rows qualify: either way the
// units are not back on the shelf, and only the overdue status keeps blocking
// through the current day, so the flag has to land promptly for availability
// to stay honest.
func NewOverdueJob(params OverdueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	return &overdueJob{
		logg: params.Logger,
		repo: params.Repo,
		now:  dates.Today,
	}, nil
}

type overdueJob struct {
	logg *logger.Logger
	repo overdueRepository
	now  func() time.Time
}

func (j *overdueJob) Name() string { return "reservation-overdue" }

// Run marks every unreturned reservation whose end date is before today. Each
// row is updated independently so one bad row does not stall the rest of the
// sweep; failures are collected and reported together.
func (j *overdueJob) Run(ctx context.Context) error {
	today := j.now()
	rows, err := j.repo.ListUnreturnedEndedBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("query ended reservations: %w", err)
	}

	var errs []error
	count := 0
	for _, row := range rows {
		if err := j.repo.UpdateStatus(ctx, row.ID, enums.ReservationStatusOverdue); err != nil {
			errs = append(errs, fmt.Errorf("mark reservation %s overdue: %w", row.ID, err))
			continue
		}
		count++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count, "failed": len(errs)})
	j.logg.Info(logCtx, "overdue sweep complete")
	return multierr.Combine(errs...)
}
