package reservations

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentgear/rentgear-backend/internal/availability"
	"github.com/rentgear/rentgear-backend/pkg/dates"
	"github.com/rentgear/rentgear-backend/pkg/db/models"
	"github.com/rentgear/rentgear-backend/pkg/enums"
)

// CreateReservationInput is one booking request for one tool.
type CreateReservationInput struct {
	ToolID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Quantity  int
}

// ReservationDTO is the API-facing projection of a reservation.
type ReservationDTO struct {
	ID             uuid.UUID                `json:"id"`
	ToolID         uuid.UUID                `json:"tool_id"`
	UserID         uuid.UUID                `json:"user_id"`
	StartDate      string                   `json:"start_date"`
	EndDate        string                   `json:"end_date"`
	Quantity       int                      `json:"quantity"`
	Status         enums.ReservationStatus  `json:"status"`
	PreviousStatus *enums.ReservationStatus `json:"previous_status,omitempty"`
	TotalCents     int                      `json:"total_cents"`
	CreatedAt      time.Time                `json:"created_at"`
}

// AvailabilityResult pairs the admission verdict with the unclamped unit
// count. UnitsFreeRaw goes negative when stock was reduced below the booked
// load; the admin dashboard shows the deficit while Decision stays clamped.
type AvailabilityResult struct {
	Decision     availability.Decision `json:"decision"`
	UnitsFreeRaw int                   `json:"units_free_raw"`
	AsOfDate     string                `json:"as_of_date"`
}

// DayGridEntry is one calendar day in a tool's availability grid. Blocked is
// the any-overlap semantic; UnitsFree counts what is actually still bookable.
type DayGridEntry struct {
	Date      string `json:"date"`
	Blocked   bool   `json:"blocked"`
	UnitsFree int    `json:"units_free"`
}

func toDTO(row *models.Reservation) *ReservationDTO {
	return &ReservationDTO{
		ID:             row.ID,
		ToolID:         row.ToolID,
		UserID:         row.UserID,
		StartDate:      dates.Format(row.StartDate),
		EndDate:        dates.Format(row.EndDate),
		Quantity:       row.Quantity,
		Status:         row.Status,
		PreviousStatus: row.PreviousStatus,
		TotalCents:     row.TotalCents,
		CreatedAt:      row.CreatedAt,
	}
}
