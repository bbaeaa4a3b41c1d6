package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentgear/rentgear-backend/pkg/db/models"
	pkgerrors "github.com/rentgear/rentgear-backend/pkg/errors"
)

// Service exposes catalog management and read paths.
type Service interface {
	GetTool(ctx context.Context, id uuid.UUID) (*ToolDTO, error)
	ListTools(ctx context.Context, onlyAvailable bool) ([]ToolDTO, error)
	CreateTool(ctx context.Context, input CreateToolInput) (*ToolDTO, error)
	UpdateTool(ctx context.Context, id uuid.UUID, input UpdateToolInput) (*ToolDTO, error)
	DeleteTool(ctx context.Context, id uuid.UUID) error
}

// CreateToolInput holds the validated payload to create a tool.
type CreateToolInput struct {
	Name            string
	Description     *string
	Categories      []string
	DailyPriceCents int
	Stock           int
	IsAvailable     bool
}

// UpdateToolInput holds optional mutation values; nil fields are untouched.
// Stock may be lowered below the currently reserved count, which leaves the
// tool oversubscribed until reservations drain.
type UpdateToolInput struct {
	Name            *string
	Description     *string
	Categories      *[]string
	DailyPriceCents *int
	Stock           *int
	IsAvailable     *bool
}

type service struct {
	repo *Repository
}

// NewService constructs the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tool repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetTool(ctx context.Context, id uuid.UUID) (*ToolDTO, error) {
	tool, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tool not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load tool")
	}
	return toDTO(tool), nil
}

func (s *service) ListTools(ctx context.Context, onlyAvailable bool) ([]ToolDTO, error) {
	rows, err := s.repo.List(ctx, onlyAvailable)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list tools")
	}
	out := make([]ToolDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateTool(ctx context.Context, input CreateToolInput) (*ToolDTO, error) {
	if err := validateStock(input.Stock); err != nil {
		return nil, err
	}
	if err := validatePrice(input.DailyPriceCents); err != nil {
		return nil, err
	}

	tool := &models.Tool{
		Name:            input.Name,
		Description:     input.Description,
		Categories:      input.Categories,
		DailyPriceCents: input.DailyPriceCents,
		Stock:           input.Stock,
		IsAvailable:     input.IsAvailable,
	}
	created, err := s.repo.Create(ctx, tool)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert tool")
	}
	return toDTO(created), nil
}

func (s *service) UpdateTool(ctx context.Context, id uuid.UUID, input UpdateToolInput) (*ToolDTO, error) {
	tool, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tool not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load tool")
	}

	if input.Name != nil {
		tool.Name = *input.Name
	}
	if input.Description != nil {
		tool.Description = input.Description
	}
	if input.Categories != nil {
		tool.Categories = *input.Categories
	}
	if input.DailyPriceCents != nil {
		if err := validatePrice(*input.DailyPriceCents); err != nil {
			return nil, err
		}
		tool.DailyPriceCents = *input.DailyPriceCents
	}
	if input.Stock != nil {
		if err := validateStock(*input.Stock); err != nil {
			return nil, err
		}
		tool.Stock = *input.Stock
	}
	if input.IsAvailable != nil {
		tool.IsAvailable = *input.IsAvailable
	}

	updated, err := s.repo.Update(ctx, tool)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update tool")
	}
	return toDTO(updated), nil
}

func (s *service) DeleteTool(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "tool not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load tool")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete tool")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

func validatePrice(cents int) error {
	if cents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "daily_price_cents cannot be negative")
	}
	return nil
}
