package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rentgear/rentgear-backend/pkg/dates"
	"github.com/rentgear/rentgear-backend/pkg/db/models"
	"github.com/rentgear/rentgear-backend/pkg/enums"
	"github.com/rentgear/rentgear-backend/pkg/logger"
)

type stubOverdueRepo struct {
	rows       []models.Reservation
	listErr    error
	updated    []uuid.UUID
	failUpdate map[uuid.UUID]error
	cutoff     time.Time
}

func (s *stubOverdueRepo) ListUnreturnedEndedBefore(_ context.Context, cutoff time.Time) ([]models.Reservation, error) {
	s.cutoff = cutoff
	return s.rows, s.listErr
}

func (s *stubOverdueRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.ReservationStatus) error {
	if err := s.failUpdate[id]; err != nil {
		return err
	}
	if status != enums.ReservationStatusOverdue {
		return fmt.Errorf("unexpected status %q", status)
	}
	s.updated = append(s.updated, id)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test"})
}

func TestOverdueJobMarksEndedReservations(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()
	repo := &stubOverdueRepo{rows: []models.Reservation{{ID: first}, {ID: second}}}

	job, err := NewOverdueJob(OverdueJobParams{Logger: testLogger(), Repo: repo})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	today, _ := dates.Parse("2025-06-03")
	job.(*overdueJob).now = func() time.Time { return today }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(repo.updated) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(repo.updated))
	}
	if !repo.cutoff.Equal(today) {
		t.Fatalf("expected cutoff %v, got %v", today, repo.cutoff)
	}
}

func TestOverdueJobCollectsUpdateFailures(t *testing.T) {
	t.Parallel()

	bad := uuid.New()
	good := uuid.New()
	repo := &stubOverdueRepo{
		rows:       []models.Reservation{{ID: bad}, {ID: good}},
		failUpdate: map[uuid.UUID]error{bad: fmt.Errorf("boom")},
	}

	job, err := NewOverdueJob(OverdueJobParams{Logger: testLogger(), Repo: repo})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected combined error")
	}
	if len(repo.updated) != 1 || repo.updated[0] != good {
		t.Fatalf("good row should still update: %+v", repo.updated)
	}
}

func TestOverdueJobListFailure(t *testing.T) {
	t.Parallel()

	repo := &stubOverdueRepo{listErr: fmt.Errorf("db down")}
	job, err := NewOverdueJob(OverdueJobParams{Logger: testLogger(), Repo: repo})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
