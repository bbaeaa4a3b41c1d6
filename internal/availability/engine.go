// Package availability answers two questions for a tool: how many units are
// free over a date range, and whether a new reservation may be admitted. It
// is a pure computation over caller-supplied data. It never reads the clock
// or touches storage, so the reference date (asOf) is always an explicit
// parameter.
package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentgear/rentgear-backend/pkg/dates"
	"github.com/rentgear/rentgear-backend/pkg/enums"
	pkgerrors "github.com/rentgear/rentgear-backend/pkg/errors"
)

// Tool carries the two inputs the engine needs from the catalog: the total
// unit count and the maintenance flag.
type Tool struct {
	ID          uuid.UUID
	Stock       int
	IsAvailable bool
}

// Reservation is the engine's view of a booking. Quantity zero is read as
// one, matching rows created before quantities existed.
type Reservation struct {
	ID        uuid.UUID
	ToolID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Quantity  int
	Status    enums.ReservationStatus
}

// Decision is the admission verdict handed back to callers. UnitsFree is
// clamped to zero here because the decision is customer-facing; admin
// diagnostics that want the raw (possibly negative) figure use UnitsFree
// directly.
type Decision struct {
	Admit         bool   `json:"admit"`
	UnitsFree     int    `json:"units_free"`
	TotalStock    int    `json:"total_stock"`
	ReservedUnits int    `json:"reserved_units"`
	Reason        string `json:"reason,omitempty"`
}

const ReasonMaintenance = "tool is under maintenance"

// blockingWindow resolves a reservation's effective blocking interval for the
// given reference date. The bool is false for statuses that never consume
// stock. Overdue reservations hold their units only through asOf: the tool is
// still out, but it may come back any day, so a stale overdue row must not
// freeze future dates indefinitely.
func blockingWindow(r Reservation, asOf time.Time) (time.Time, time.Time, bool) {
	switch r.Status {
	case enums.ReservationStatusActive, enums.ReservationStatusDelivered:
		return r.StartDate, r.EndDate, true
	case enums.ReservationStatusOverdue:
		return r.StartDate, dates.Min(r.EndDate, asOf), true
	default:
		// returned, cancelled, completed, archived
		return time.Time{}, time.Time{}, false
	}
}

// ReservedUnits sums the quantities of every reservation of the tool whose
// effective blocking interval overlaps [rangeStart, rangeEnd].
func ReservedUnits(tool Tool, reservations []Reservation, rangeStart, rangeEnd, asOf time.Time) int {
	rangeStart = dates.Day(rangeStart)
	rangeEnd = dates.Day(rangeEnd)
	asOf = dates.Day(asOf)

	reserved := 0
	for _, r := range reservations {
		if r.ToolID != tool.ID {
			continue
		}
		effStart, effEnd, blocks := blockingWindow(r, asOf)
		if !blocks {
			continue
		}
		if !dates.Overlaps(dates.Day(effStart), dates.Day(effEnd), rangeStart, rangeEnd) {
			continue
		}
		qty := r.Quantity
		if qty <= 0 {
			qty = 1
		}
		reserved += qty
	}
	return reserved
}

// UnitsFree returns stock minus the units reserved over the range. The result
// may be negative when stock was reduced after bookings were taken; callers
// making admission decisions clamp at zero, admin views surface the deficit.
func UnitsFree(tool Tool, reservations []Reservation, rangeStart, rangeEnd, asOf time.Time) int {
	return tool.Stock - ReservedUnits(tool, reservations, rangeStart, rangeEnd, asOf)
}

// DayUnitsFree is the single-day form of UnitsFree used by calendar views.
func DayUnitsFree(tool Tool, reservations []Reservation, day, asOf time.Time) int {
	return UnitsFree(tool, reservations, day, day, asOf)
}

// AnyUnitBlocked reports whether any blocking reservation overlaps the day at
// all, ignoring quantities. This is the semantic the legacy calendar used: a
// tool with stock 5 and a single one-unit booking shows as blocked. Callers
// that want partial-stock awareness use DayUnitsFree instead; the calendar
// endpoint returns both so the choice is explicit.
func AnyUnitBlocked(tool Tool, reservations []Reservation, day, asOf time.Time) bool {
	return ReservedUnits(tool, reservations, day, day, asOf) > 0
}

// CheckAdmission decides whether requestedQty more units can be booked over
// the range. alreadyHeldQty subtracts units the same requester is holding in
// not-yet-committed cart lines for overlapping dates, so a client cannot
// count the same free unit twice across lines before checkout commits.
func CheckAdmission(tool Tool, reservations []Reservation, rangeStart, rangeEnd time.Time, requestedQty, alreadyHeldQty int, asOf time.Time) Decision {
	if !tool.IsAvailable {
		return Decision{
			Admit:      false,
			UnitsFree:  0,
			TotalStock: tool.Stock,
			Reason:     ReasonMaintenance,
		}
	}

	reserved := ReservedUnits(tool, reservations, rangeStart, rangeEnd, asOf)
	free := tool.Stock - reserved
	if free < 0 {
		free = 0
	}
	grantable := free - alreadyHeldQty
	if grantable < 0 {
		grantable = 0
	}

	decision := Decision{
		UnitsFree:     free,
		TotalStock:    tool.Stock,
		ReservedUnits: reserved,
	}
	if grantable >= requestedQty {
		decision.Admit = true
		return decision
	}
	decision.Reason = fmt.Sprintf("only %d available for these dates", grantable)
	return decision
}

// ValidateRange enforces the caller contract before the pure functions run:
// the engine itself never errors on well-formed input, so malformed ranges
// and quantities are rejected here with a validation error.
func ValidateRange(rangeStart, rangeEnd time.Time) error {
	if rangeStart.IsZero() || rangeEnd.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}
	if dates.Day(rangeEnd).Before(dates.Day(rangeStart)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date must not be before start date")
	}
	return nil
}

// ValidateQuantity rejects non-positive requested quantities.
func ValidateQuantity(qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return nil
}
