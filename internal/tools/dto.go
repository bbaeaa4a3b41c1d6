package tools

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentgear/rentgear-backend/pkg/db/models"
)

// ToolDTO is the API-facing projection of a catalog row.
type ToolDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Categories      []string  `json:"categories"`
	DailyPriceCents int       `json:"daily_price_cents"`
	Stock           int       `json:"stock"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toDTO(tool *models.Tool) *ToolDTO {
	categories := make([]string, len(tool.Categories))
	copy(categories, tool.Categories)
	return &ToolDTO{
		ID:              tool.ID,
		Name:            tool.Name,
		Description:     tool.Description,
		Categories:      categories,
		DailyPriceCents: tool.DailyPriceCents,
		Stock:           tool.Stock,
		IsAvailable:     tool.IsAvailable,
		CreatedAt:       tool.CreatedAt,
		UpdatedAt:       tool.UpdatedAt,
	}
}
