package reservations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentgear/rentgear-backend/internal/availability"
	"github.com/rentgear/rentgear-backend/pkg/config"
	"github.com/rentgear/rentgear-backend/pkg/dates"
	"github.com/rentgear/rentgear-backend/pkg/db"
	"github.com/rentgear/rentgear-backend/pkg/db/models"
	"github.com/rentgear/rentgear-backend/pkg/enums"
	pkgerrors "github.com/rentgear/rentgear-backend/pkg/errors"
	"github.com/rentgear/rentgear-backend/pkg/metrics"
)

// Service exposes booking, availability reads, and lifecycle transitions.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateReservationInput) (*ReservationDTO, error)
	CreateBatch(ctx context.Context, userID uuid.UUID, inputs []CreateReservationInput) ([]ReservationDTO, error)
	CheckAvailability(ctx context.Context, toolID uuid.UUID, start, end time.Time, qty, held int) (*AvailabilityResult, error)
	DayGrid(ctx context.Context, toolID uuid.UUID, start, end time.Time) ([]DayGridEntry, error)
	Get(ctx context.Context, id, actorID uuid.UUID, admin bool) (*ReservationDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]ReservationDTO, error)
	ListAll(ctx context.Context, status *enums.ReservationStatus) ([]ReservationDTO, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*ReservationDTO, error)
	MarkReturned(ctx context.Context, id uuid.UUID) (*ReservationDTO, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID, admin bool) (*ReservationDTO, error)
	Archive(ctx context.Context, id uuid.UUID) (*ReservationDTO, error)
	Restore(ctx context.Context, id uuid.UUID) (*ReservationDTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	booking  config.BookingConfig
	metrics  *metrics.BookingMetrics
	today    func() time.Time
}

// NewService constructs the reservation service. metrics may be nil.
func NewService(repo *Repository, dbClient *db.Client, booking config.BookingConfig, bookingMetrics *metrics.BookingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		booking:  booking,
		metrics:  bookingMetrics,
		today:    dates.Today,
	}, nil
}

func (s *service) validateInput(input CreateReservationInput) error {
	if input.ToolID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tool_id is required")
	}
	if err := availability.ValidateRange(input.StartDate, input.EndDate); err != nil {
		return err
	}
	if err := availability.ValidateQuantity(input.Quantity); err != nil {
		return err
	}
	if max := s.booking.MaxRangeDays; max > 0 && dates.DaysInclusive(input.StartDate, input.EndDate) > max {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rental cannot exceed %d days", max))
	}
	return nil
}

// Create books a single reservation. The admission check and the insert run
// inside one transaction holding the tool's row lock, so a concurrent request
// for the same tool cannot both pass the check and oversell the last unit.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateReservationInput) (*ReservationDTO, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	asOf := s.today()
	var created *models.Reservation
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		tool, err := txRepo.LockTool(ctx, input.ToolID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "tool not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock tool")
		}
		existing, err := txRepo.ListByTool(ctx, input.ToolID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
		}

		decision := availability.CheckAdmission(
			toEngineTool(tool), toEngineReservations(existing),
			input.StartDate, input.EndDate, input.Quantity, 0, asOf,
		)
		s.recordDecision(decision)
		if !decision.Admit {
			return admissionError(decision)
		}

		row := &models.Reservation{
			ToolID:     input.ToolID,
			UserID:     userID,
			StartDate:  dates.Day(input.StartDate),
			EndDate:    dates.Day(input.EndDate),
			Quantity:   input.Quantity,
			Status:     enums.ReservationStatusActive,
			TotalCents: QuoteTotalCents(tool, input.StartDate, input.EndDate, input.Quantity),
		}
		created, err = txRepo.Create(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert reservation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDTO(created), nil
}

// CreateBatch books several lines atomically. Tools are locked in sorted ID
// order so two overlapping batches cannot deadlock, and each line's admission
// check subtracts the quantities earlier lines in the same batch already hold
// for overlapping dates. Any rejected line fails the whole batch.
func (s *service) CreateBatch(ctx context.Context, userID uuid.UUID, inputs []CreateReservationInput) ([]ReservationDTO, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	for i, input := range inputs {
		if err := s.validateInput(input); err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				return nil, typed.WithDetails(map[string]any{"line": i})
			}
			return nil, err
		}
	}

	toolIDs := make([]uuid.UUID, 0, len(inputs))
	seen := map[uuid.UUID]bool{}
	for _, input := range inputs {
		if !seen[input.ToolID] {
			seen[input.ToolID] = true
			toolIDs = append(toolIDs, input.ToolID)
		}
	}
	sort.Slice(toolIDs, func(i, j int) bool { return toolIDs[i].String() < toolIDs[j].String() })

	asOf := s.today()
	var created []models.Reservation
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		tools := map[uuid.UUID]*models.Tool{}
		existing := map[uuid.UUID][]availability.Reservation{}
		for _, toolID := range toolIDs {
			tool, err := txRepo.LockTool(ctx, toolID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "tool not found").
						WithDetails(map[string]any{"tool_id": toolID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock tool")
			}
			rows, err := txRepo.ListByTool(ctx, toolID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
			}
			tools[toolID] = tool
			existing[toolID] = toEngineReservations(rows)
		}

		for i, input := range inputs {
			held := heldQuantity(inputs[:i], input)
			decision := availability.CheckAdmission(
				toEngineTool(tools[input.ToolID]), existing[input.ToolID],
				input.StartDate, input.EndDate, input.Quantity, held, asOf,
			)
			s.recordDecision(decision)
			if !decision.Admit {
				err := admissionError(decision)
				if typed := pkgerrors.As(err); typed != nil {
					return typed.WithDetails(map[string]any{"line": i, "decision": decision})
				}
				return err
			}
		}

		created = make([]models.Reservation, 0, len(inputs))
		for _, input := range inputs {
			row := &models.Reservation{
				ToolID:     input.ToolID,
				UserID:     userID,
				StartDate:  dates.Day(input.StartDate),
				EndDate:    dates.Day(input.EndDate),
				Quantity:   input.Quantity,
				Status:     enums.ReservationStatusActive,
				TotalCents: QuoteTotalCents(tools[input.ToolID], input.StartDate, input.EndDate, input.Quantity),
			}
			if _, err := txRepo.Create(ctx, row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert reservation")
			}
			created = append(created, *row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]ReservationDTO, 0, len(created))
	for i := range created {
		out = append(out, *toDTO(&created[i]))
	}
	return out, nil
}

// heldQuantity sums quantities earlier batch lines hold on the same tool for
// dates overlapping the current line.
func heldQuantity(prior []CreateReservationInput, current CreateReservationInput) int {
	held := 0
	for _, line := range prior {
		if line.ToolID != current.ToolID {
			continue
		}
		if !dates.Overlaps(
			dates.Day(line.StartDate), dates.Day(line.EndDate),
			dates.Day(current.StartDate), dates.Day(current.EndDate),
		) {
			continue
		}
		held += line.Quantity
	}
	return held
}

// CheckAvailability is the read-only probe. held lets a cart page subtract
// units its other lines already claim. It runs without locks; the
// authoritative check is repeated under lock when a booking commits.
func (s *service) CheckAvailability(ctx context.Context, toolID uuid.UUID, start, end time.Time, qty, held int) (*AvailabilityResult, error) {
	if err := availability.ValidateRange(start, end); err != nil {
		return nil, err
	}
	if err := availability.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	if held < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "held quantity cannot be negative")
	}

	tool, rows, err := s.loadToolState(ctx, toolID)
	if err != nil {
		return nil, err
	}

	asOf := s.today()
	engineTool := toEngineTool(tool)
	engineRows := toEngineReservations(rows)
	return &AvailabilityResult{
		Decision:     availability.CheckAdmission(engineTool, engineRows, start, end, qty, held, asOf),
		UnitsFreeRaw: availability.UnitsFree(engineTool, engineRows, start, end, asOf),
		AsOfDate:     dates.Format(asOf),
	}, nil
}

// DayGrid walks the range one day at a time and reports both calendar
// semantics per day.
func (s *service) DayGrid(ctx context.Context, toolID uuid.UUID, start, end time.Time) ([]DayGridEntry, error) {
	if err := availability.ValidateRange(start, end); err != nil {
		return nil, err
	}
	if max := s.booking.MaxCalendarDays; max > 0 && dates.DaysInclusive(start, end) > max {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("calendar range cannot exceed %d days", max))
	}

	tool, rows, err := s.loadToolState(ctx, toolID)
	if err != nil {
		return nil, err
	}

	asOf := s.today()
	engineTool := toEngineTool(tool)
	engineRows := toEngineReservations(rows)

	grid := make([]DayGridEntry, 0, dates.DaysInclusive(start, end))
	for day := dates.Day(start); !day.After(dates.Day(end)); day = day.AddDate(0, 0, 1) {
		free := availability.DayUnitsFree(engineTool, engineRows, day, asOf)
		if free < 0 {
			free = 0
		}
		grid = append(grid, DayGridEntry{
			Date:      dates.Format(day),
			Blocked:   availability.AnyUnitBlocked(engineTool, engineRows, day, asOf),
			UnitsFree: free,
		})
	}
	return grid, nil
}

func (s *service) loadToolState(ctx context.Context, toolID uuid.UUID) (*models.Tool, []models.Reservation, error) {
	var tool models.Tool
	if err := s.dbClient.DB().WithContext(ctx).First(&tool, "id = ?", toolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "tool not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load tool")
	}
	rows, err := s.repo.ListByTool(ctx, toolID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
	}
	return &tool, rows, nil
}

func (s *service) Get(ctx context.Context, id, actorID uuid.UUID, admin bool) (*ReservationDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && row.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation belongs to another user")
	}
	return toDTO(row), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]ReservationDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
	}
	out := make([]ReservationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

// ListAll returns every reservation for the admin dashboard, optionally
// filtered to one status.
func (s *service) ListAll(ctx context.Context, status *enums.ReservationStatus) ([]ReservationDTO, error) {
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
	}
	out := make([]ReservationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

// MarkDelivered moves an active reservation to delivered.
func (s *service) MarkDelivered(ctx context.Context, id uuid.UUID) (*ReservationDTO, error) {
	return s.transition(ctx, id, enums.ReservationStatusDelivered,
		enums.ReservationStatusActive)
}

// MarkReturned closes out a rental that is back on the shelf. Overdue rentals
// return too; their units free up for future dates the moment this lands.
func (s *service) MarkReturned(ctx context.Context, id uuid.UUID) (*ReservationDTO, error) {
	return s.transition(ctx, id, enums.ReservationStatusReturned,
		enums.ReservationStatusActive, enums.ReservationStatusDelivered, enums.ReservationStatusOverdue)
}

// Cancel voids a not-yet-delivered reservation. Customers may cancel their
// own; admins may cancel any.
func (s *service) Cancel(ctx context.Context, id, actorID uuid.UUID, admin bool) (*ReservationDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && row.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation belongs to another user")
	}
	if row.Status != enums.ReservationStatusActive {
		return nil, transitionError(row.Status, enums.ReservationStatusCancelled)
	}
	row.Status = enums.ReservationStatusCancelled
	return s.save(ctx, row)
}

// Archive soft-deletes a reservation, remembering the status it had so a
// restore can put it back.
func (s *service) Archive(ctx context.Context, id uuid.UUID) (*ReservationDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status == enums.ReservationStatusArchived {
		return nil, transitionError(row.Status, enums.ReservationStatusArchived)
	}
	previous := row.Status
	row.PreviousStatus = &previous
	row.Status = enums.ReservationStatusArchived
	return s.save(ctx, row)
}

// Restore reinstates an archived reservation to the status it held before
// archiving. Rows archived before previous_status existed come back active.
func (s *service) Restore(ctx context.Context, id uuid.UUID) (*ReservationDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status != enums.ReservationStatusArchived {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only archived reservations can be restored")
	}
	restored := enums.ReservationStatusActive
	if row.PreviousStatus != nil && row.PreviousStatus.IsValid() {
		restored = *row.PreviousStatus
	}
	row.Status = restored
	row.PreviousStatus = nil
	return s.save(ctx, row)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, to enums.ReservationStatus, from ...enums.ReservationStatus) (*ReservationDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, status := range from {
		if row.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, transitionError(row.Status, to)
	}
	row.Status = to
	return s.save(ctx, row)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load reservation")
	}
	return row, nil
}

func (s *service) save(ctx context.Context, row *models.Reservation) (*ReservationDTO, error) {
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update reservation")
	}
	return toDTO(updated), nil
}

func (s *service) recordDecision(decision availability.Decision) {
	if s.metrics == nil {
		return
	}
	switch {
	case decision.Admit:
		s.metrics.IncDecision(metrics.AdmissionOutcomeAdmitted)
	case decision.Reason == availability.ReasonMaintenance:
		s.metrics.IncDecision(metrics.AdmissionOutcomeMaintenance)
	default:
		s.metrics.IncDecision(metrics.AdmissionOutcomeRejected)
	}
}

func admissionError(decision availability.Decision) error {
	if decision.Reason == availability.ReasonMaintenance {
		return pkgerrors.New(pkgerrors.CodeStateConflict, decision.Reason)
	}
	return pkgerrors.New(pkgerrors.CodeConflict, decision.Reason).
		WithDetails(decision)
}

func transitionError(from, to enums.ReservationStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot move reservation from %s to %s", from, to))
}
