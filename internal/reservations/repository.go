package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentgear/rentgear-backend/internal/availability"
	"github.com/rentgear/rentgear-backend/pkg/db/models"
	"github.com/rentgear/rentgear-backend/pkg/enums"
)

// Repository wraps reservation persistence.
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

// LockTool loads the tool row, taking a row lock when the dialect supports
// it. Admission checks run against this row inside the same transaction, so
// two concurrent bookings for the same tool serialize on the lock and the
// second one sees the first one's insert. SQLite has no FOR UPDATE; its
// single-writer transactions give the same guarantee.
func (r *Repository) LockTool(ctx context.Context, toolID uuid.UUID) (*models.Tool, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var tool models.Tool
	if err := query.First(&tool, "id = ?", toolID).Error; err != nil {
		return nil, err
	}
	return &tool, nil
}

// FindByID loads a reservation by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var row models.Reservation
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByTool returns every reservation of the tool. The availability engine
// filters by status itself, so no status filter is applied here.
func (r *Repository) ListByTool(ctx context.Context, toolID uuid.UUID) ([]models.Reservation, error) {
	var rows []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("tool_id = ?", toolID).
		Order("start_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns all reservations newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.ReservationStatus) ([]models.Reservation, error) {
	query := r.db.WithContext(ctx)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.Reservation
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns the user's reservations, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Reservation, error) {
	var rows []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a reservation row.
func (r *Repository) Create(ctx context.Context, row *models.Reservation) (*models.Reservation, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves the full reservation row.
func (r *Repository) Update(ctx context.Context, row *models.Reservation) (*models.Reservation, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListUnreturnedEndedBefore returns reservations whose end date has passed
// and whose units are still out, the candidates for the overdue sweep. That
// covers both active rows (never picked up) and delivered rows (picked up,
// not yet returned); a delivered rental past its end date is physically with
// the customer and must keep holding stock.
func (r *Repository) ListUnreturnedEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	var rows []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND end_date < ?",
			[]enums.ReservationStatus{enums.ReservationStatusActive, enums.ReservationStatusDelivered},
			cutoff).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the status of a single reservation.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReservationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

func toEngineTool(tool *models.Tool) availability.Tool {
	return availability.Tool{
		ID:          tool.ID,
		Stock:       tool.Stock,
		IsAvailable: tool.IsAvailable,
	}
}

func toEngineReservations(rows []models.Reservation) []availability.Reservation {
	out := make([]availability.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Reservation{
			ID:        row.ID,
			ToolID:    row.ToolID,
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
			Quantity:  row.Quantity,
			Status:    row.Status,
		})
	}
	return out
}
