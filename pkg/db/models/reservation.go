package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentgear/rentgear-backend/pkg/enums"
)

// Reservation books Quantity units of a tool over an inclusive date range.
// PreviousStatus is only populated while the row is archived so a restore can
// reinstate the status the reservation had before the soft delete.
type Reservation struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	ToolID         uuid.UUID                `gorm:"column:tool_id;type:uuid;not null;index"`
	UserID         uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	StartDate      time.Time                `gorm:"column:start_date;type:date;not null"`
	EndDate        time.Time                `gorm:"column:end_date;type:date;not null"`
	Quantity       int                      `gorm:"column:quantity;not null;default:1"`
	Status         enums.ReservationStatus  `gorm:"column:status;not null;default:'active'"`
	PreviousStatus *enums.ReservationStatus `gorm:"column:previous_status"`
	TotalCents     int                      `gorm:"column:total_cents;not null;default:0"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
