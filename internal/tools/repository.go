package tools

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentgear/rentgear-backend/pkg/db/models"
)

// Repository wraps catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a tool by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tool, error) {
	var tool models.Tool
	if err := r.db.WithContext(ctx).First(&tool, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tool, nil
}

// List returns catalog rows ordered by name. When onlyAvailable is set, tools
// under maintenance are excluded.
func (r *Repository) List(ctx context.Context, onlyAvailable bool) ([]models.Tool, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if onlyAvailable {
		query = query.Where("is_available = ?", true)
	}
	var rows []models.Tool
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new tool row.
func (r *Repository) Create(ctx context.Context, tool *models.Tool) (*models.Tool, error) {
	if err := r.db.WithContext(ctx).Create(tool).Error; err != nil {
		return nil, err
	}
	return tool, nil
}

// Update saves the full tool row.
func (r *Repository) Update(ctx context.Context, tool *models.Tool) (*models.Tool, error) {
	if err := r.db.WithContext(ctx).Save(tool).Error; err != nil {
		return nil, err
	}
	return tool, nil
}

// Delete removes a tool by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tool{}).Error
}
