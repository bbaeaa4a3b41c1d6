package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Tool is a rentable catalog item. Stock is the total number of physical
// units owned and is the ceiling for every overlap calculation; IsAvailable
// is the maintenance flag that takes the whole tool off the market.
type Tool struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name            string         `gorm:"column:name;not null"`
	Description     *string        `gorm:"column:description"`
	Categories      pq.StringArray `gorm:"column:categories;type:text[]"`
	DailyPriceCents int            `gorm:"column:daily_price_cents;not null"`
	Stock           int            `gorm:"column:stock;not null;default:1"`
	IsAvailable     bool           `gorm:"column:is_available;not null;default:true"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (t *Tool) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
