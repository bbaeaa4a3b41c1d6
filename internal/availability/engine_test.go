package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rentgear/rentgear-backend/pkg/dates"
	"github.com/rentgear/rentgear-backend/pkg/enums"
)

func day(value string) time.Time {
	t, err := dates.Parse(value)
	if err != nil {
		panic(err)
	}
	return t
}

func reservation(toolID uuid.UUID, status enums.ReservationStatus, qty int, start, end string) Reservation {
	return Reservation{
		ID:        uuid.New(),
		ToolID:    toolID,
		StartDate: day(start),
		EndDate:   day(end),
		Quantity:  qty,
		Status:    status,
	}
}

func TestUnitsFreeCountsActiveAndDelivered(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 5, IsAvailable: true}
	reservations := []Reservation{
		reservation(tool.ID, enums.ReservationStatusActive, 2, "2025-06-01", "2025-06-05"),
		reservation(tool.ID, enums.ReservationStatusDelivered, 1, "2025-06-03", "2025-06-07"),
	}

	got := UnitsFree(tool, reservations, day("2025-06-04"), day("2025-06-04"), day("2025-06-04"))
	if got != 2 {
		t.Fatalf("expected 2 free units, got %d", got)
	}
}

func TestUnitsFreeIgnoresOtherTools(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 3, IsAvailable: true}
	reservations := []Reservation{
		reservation(uuid.New(), enums.ReservationStatusActive, 3, "2025-06-01", "2025-06-10"),
	}

	got := UnitsFree(tool, reservations, day("2025-06-05"), day("2025-06-05"), day("2025-06-05"))
	if got != 3 {
		t.Fatalf("expected full stock for unrelated reservations, got %d", got)
	}
}

func TestNonBlockingStatusesNeverReduceAvailability(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 4, IsAvailable: true}
	blockers := []Reservation{
		reservation(tool.ID, enums.ReservationStatusActive, 1, "2025-06-01", "2025-06-10"),
	}
	withNonBlockers := append([]Reservation{}, blockers...)
	for _, status := range []enums.ReservationStatus{
		enums.ReservationStatusReturned,
		enums.ReservationStatusCancelled,
		enums.ReservationStatusCompleted,
		enums.ReservationStatusArchived,
	} {
		withNonBlockers = append(withNonBlockers, reservation(tool.ID, status, 4, "2025-06-01", "2025-06-10"))
	}

	rangeStart, rangeEnd, asOf := day("2025-06-01"), day("2025-06-10"), day("2025-06-05")
	if got, want := UnitsFree(tool, withNonBlockers, rangeStart, rangeEnd, asOf), UnitsFree(tool, blockers, rangeStart, rangeEnd, asOf); got != want {
		t.Fatalf("non-blocking statuses changed availability: %d != %d", got, want)
	}
}

func TestOverdueCapsAtAsOfDate(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 2, IsAvailable: true}
	reservations := []Reservation{
		// stated end far in the future; must not block past asOf
		reservation(tool.ID, enums.ReservationStatusOverdue, 1, "2025-05-01", "2025-12-31"),
	}
	asOf := day("2025-06-03")

	if got := UnitsFree(tool, reservations, day("2025-06-01"), day("2025-06-03"), asOf); got != 1 {
		t.Fatalf("overdue should block through asOf, got %d free", got)
	}
	if got := UnitsFree(tool, reservations, day("2025-06-04"), day("2025-06-30"), asOf); got != 2 {
		t.Fatalf("overdue must not block beyond asOf, got %d free", got)
	}
}

func TestOverdueStartingAfterAsOfBlocksNothing(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 1, IsAvailable: true}
	reservations := []Reservation{
		reservation(tool.ID, enums.ReservationStatusOverdue, 1, "2025-07-01", "2025-07-10"),
	}

	if got := UnitsFree(tool, reservations, day("2025-06-01"), day("2025-08-01"), day("2025-06-15")); got != 1 {
		t.Fatalf("overdue with future start should not block, got %d free", got)
	}
}

func TestQuantityZeroDefaultsToOne(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 3, IsAvailable: true}
	reservations := []Reservation{
		reservation(tool.ID, enums.ReservationStatusActive, 0, "2025-06-01", "2025-06-05"),
	}

	if got := UnitsFree(tool, reservations, day("2025-06-02"), day("2025-06-02"), day("2025-06-02")); got != 2 {
		t.Fatalf("expected legacy quantity to count as 1, got %d free", got)
	}
}

func TestMaintenanceShortCircuit(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 10, IsAvailable: false}
	decision := CheckAdmission(tool, nil, day("2025-06-01"), day("2025-06-05"), 1, 0, day("2025-06-01"))

	if decision.Admit {
		t.Fatal("maintenance tool must never admit")
	}
	if decision.UnitsFree != 0 {
		t.Fatalf("maintenance tool must report 0 free, got %d", decision.UnitsFree)
	}
	if decision.Reason != ReasonMaintenance {
		t.Fatalf("unexpected reason: %q", decision.Reason)
	}
}

func TestCartHeldQuantityPreventsDoubleCounting(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 2, IsAvailable: true}
	reservations := []Reservation{
		reservation(tool.ID, enums.ReservationStatusActive, 1, "2025-06-01", "2025-06-05"),
	}

	decision := CheckAdmission(tool, reservations, day("2025-06-01"), day("2025-06-05"), 1, 1, day("2025-06-01"))
	if decision.Admit {
		t.Fatal("held cart quantity must consume the last free unit")
	}
	if decision.Reason != "only 0 available for these dates" {
		t.Fatalf("unexpected reason: %q", decision.Reason)
	}

	decision = CheckAdmission(tool, reservations, day("2025-06-01"), day("2025-06-05"), 1, 0, day("2025-06-01"))
	if !decision.Admit {
		t.Fatalf("expected admit without held quantity: %+v", decision)
	}
}

func TestNegativeAvailabilitySurfacedRawButClampedForAdmission(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 1, IsAvailable: true}
	reservations := []Reservation{
		reservation(tool.ID, enums.ReservationStatusActive, 2, "2025-06-01", "2025-06-05"),
		reservation(tool.ID, enums.ReservationStatusDelivered, 1, "2025-06-01", "2025-06-05"),
	}
	rangeStart, rangeEnd, asOf := day("2025-06-02"), day("2025-06-03"), day("2025-06-02")

	if got := UnitsFree(tool, reservations, rangeStart, rangeEnd, asOf); got != -2 {
		t.Fatalf("expected raw deficit -2, got %d", got)
	}

	decision := CheckAdmission(tool, reservations, rangeStart, rangeEnd, 1, 0, asOf)
	if decision.Admit || decision.UnitsFree != 0 {
		t.Fatalf("expected clamped rejection, got %+v", decision)
	}
	if decision.ReservedUnits != 3 {
		t.Fatalf("expected reserved units 3, got %d", decision.ReservedUnits)
	}
}

// Mirrors the worked booking scenario: stock 3, an active qty-2 booking over
// 06-01..06-05 and an overdue qty-1 booking 05-20..06-10 evaluated on 06-03.
func TestOverlapScenario(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 3, IsAvailable: true}
	reservations := []Reservation{
		reservation(tool.ID, enums.ReservationStatusActive, 2, "2025-06-01", "2025-06-05"),
		reservation(tool.ID, enums.ReservationStatusOverdue, 1, "2025-05-20", "2025-06-10"),
	}
	asOf := day("2025-06-03")

	if got := UnitsFree(tool, reservations, day("2025-06-01"), day("2025-06-03"), asOf); got != 0 {
		t.Fatalf("expected 0 free for 06-01..06-03, got %d", got)
	}
	if d := CheckAdmission(tool, reservations, day("2025-06-01"), day("2025-06-03"), 1, 0, asOf); d.Admit {
		t.Fatalf("expected rejection for qty 1 over 06-01..06-03: %+v", d)
	}

	if got := UnitsFree(tool, reservations, day("2025-06-06"), day("2025-06-08"), asOf); got != 3 {
		t.Fatalf("expected full stock for 06-06..06-08, got %d", got)
	}
	if d := CheckAdmission(tool, reservations, day("2025-06-06"), day("2025-06-08"), 3, 0, asOf); !d.Admit {
		t.Fatalf("expected admit for qty 3 over 06-06..06-08: %+v", d)
	}
	if d := CheckAdmission(tool, reservations, day("2025-06-06"), day("2025-06-08"), 4, 0, asOf); d.Admit {
		t.Fatalf("expected rejection for qty 4 over 06-06..06-08: %+v", d)
	}
}

func TestAnyUnitBlockedVersusDayUnitsFree(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 5, IsAvailable: true}
	reservations := []Reservation{
		reservation(tool.ID, enums.ReservationStatusActive, 1, "2025-06-01", "2025-06-05"),
	}
	asOf := day("2025-06-01")

	// The two calendar semantics intentionally disagree on partially
	// consumed stock.
	if !AnyUnitBlocked(tool, reservations, day("2025-06-03"), asOf) {
		t.Fatal("expected any-overlap semantic to report blocked")
	}
	if got := DayUnitsFree(tool, reservations, day("2025-06-03"), asOf); got != 4 {
		t.Fatalf("expected 4 units free on partially booked day, got %d", got)
	}
	if AnyUnitBlocked(tool, reservations, day("2025-06-06"), asOf) {
		t.Fatal("expected free day to report unblocked")
	}
}

func TestPureFunctionsDoNotMutateInput(t *testing.T) {
	t.Parallel()

	tool := Tool{ID: uuid.New(), Stock: 3, IsAvailable: true}
	reservations := []Reservation{
		reservation(tool.ID, enums.ReservationStatusActive, 2, "2025-06-01", "2025-06-05"),
	}
	snapshot := make([]Reservation, len(reservations))
	copy(snapshot, reservations)

	first := UnitsFree(tool, reservations, day("2025-06-01"), day("2025-06-05"), day("2025-06-01"))
	second := UnitsFree(tool, reservations, day("2025-06-01"), day("2025-06-05"), day("2025-06-01"))
	if first != second {
		t.Fatalf("identical inputs produced %d then %d", first, second)
	}
	for i := range snapshot {
		if snapshot[i] != reservations[i] {
			t.Fatal("input reservations were mutated")
		}
	}
}

func TestValidateRange(t *testing.T) {
	t.Parallel()

	if err := ValidateRange(day("2025-06-05"), day("2025-06-01")); err == nil {
		t.Fatal("expected inverted range to be rejected")
	}
	if err := ValidateRange(time.Time{}, day("2025-06-01")); err == nil {
		t.Fatal("expected zero start to be rejected")
	}
	if err := ValidateRange(day("2025-06-01"), day("2025-06-01")); err != nil {
		t.Fatalf("single-day range should be valid: %v", err)
	}
}

func TestValidateQuantity(t *testing.T) {
	t.Parallel()

	if err := ValidateQuantity(0); err == nil {
		t.Fatal("expected zero quantity to be rejected")
	}
	if err := ValidateQuantity(-3); err == nil {
		t.Fatal("expected negative quantity to be rejected")
	}
	if err := ValidateQuantity(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
