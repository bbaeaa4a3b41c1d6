package reservations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentgear/rentgear-backend/internal/availability"
	"github.com/rentgear/rentgear-backend/pkg/enums"
)

func TestLockToolLoadsRowOnSQLite(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	tool := seedTool(t, conn, 4, true)

	locked, err := repo.LockTool(context.Background(), tool.ID)
	require.NoError(t, err)
	assert.Equal(t, tool.ID, locked.ID)
	assert.Equal(t, 4, locked.Stock)
}

func TestListByToolReturnsAllStatuses(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	tool := seedTool(t, conn, 2, true)
	other := seedTool(t, conn, 2, true)

	seedReservation(t, conn, tool.ID, enums.ReservationStatusActive, 1, "2025-06-10", "2025-06-12")
	seedReservation(t, conn, tool.ID, enums.ReservationStatusReturned, 1, "2025-06-01", "2025-06-02")
	seedReservation(t, conn, tool.ID, enums.ReservationStatusCancelled, 1, "2025-06-20", "2025-06-21")
	seedReservation(t, conn, other.ID, enums.ReservationStatusActive, 1, "2025-06-10", "2025-06-12")

	rows, err := repo.ListByTool(context.Background(), tool.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, tool.ID, row.ToolID)
	}
}

func TestListUnreturnedEndedBeforePicksUpActiveAndDelivered(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	tool := seedTool(t, conn, 5, true)

	pastActive := seedReservation(t, conn, tool.ID, enums.ReservationStatusActive, 1, "2025-05-01", "2025-05-03")
	pastDelivered := seedReservation(t, conn, tool.ID, enums.ReservationStatusDelivered, 1, "2025-06-01", "2025-06-05")
	seedReservation(t, conn, tool.ID, enums.ReservationStatusActive, 1, "2025-06-10", "2025-06-12")
	seedReservation(t, conn, tool.ID, enums.ReservationStatusReturned, 1, "2025-05-01", "2025-05-03")

	rows, err := repo.ListUnreturnedEndedBefore(context.Background(), day(t, "2025-06-10"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	found := map[uuid.UUID]bool{}
	for _, row := range rows {
		found[row.ID] = true
	}
	assert.True(t, found[pastActive.ID])
	assert.True(t, found[pastDelivered.ID])
}

// A rental handed to the customer and never brought back must not free its
// units the day after the end date: once the sweep flips it to overdue, it
// keeps blocking through the reference day and stays out of later sweeps.
func TestSweptDeliveredReservationKeepsBlocking(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	tool := seedTool(t, conn, 1, true)

	out := seedReservation(t, conn, tool.ID, enums.ReservationStatusDelivered, 1, "2025-06-01", "2025-06-05")

	candidates, err := repo.ListUnreturnedEndedBefore(context.Background(), day(t, "2025-06-10"))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.NoError(t, repo.UpdateStatus(context.Background(), out.ID, enums.ReservationStatusOverdue))

	rows, err := repo.ListByTool(context.Background(), tool.ID)
	require.NoError(t, err)
	decision := availability.CheckAdmission(
		toEngineTool(tool), toEngineReservations(rows),
		day(t, "2025-06-10"), day(t, "2025-06-12"), 1, 0, day(t, "2025-06-10"))
	assert.False(t, decision.Admit)
	assert.Equal(t, 0, decision.UnitsFree)

	again, err := repo.ListUnreturnedEndedBefore(context.Background(), day(t, "2025-06-10"))
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestUpdateStatusOnlyTouchesTarget(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	tool := seedTool(t, conn, 5, true)

	first := seedReservation(t, conn, tool.ID, enums.ReservationStatusActive, 1, "2025-05-01", "2025-05-03")
	second := seedReservation(t, conn, tool.ID, enums.ReservationStatusActive, 1, "2025-05-01", "2025-05-03")

	require.NoError(t, repo.UpdateStatus(context.Background(), first.ID, enums.ReservationStatusOverdue))

	updated, err := repo.FindByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReservationStatusOverdue, updated.Status)

	untouched, err := repo.FindByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReservationStatusActive, untouched.Status)
}

func TestFindByIDMissingReturnsError(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
}
