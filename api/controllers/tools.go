package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentgear/rentgear-backend/api/responses"
	"github.com/rentgear/rentgear-backend/api/validators"
	toolsvc "github.com/rentgear/rentgear-backend/internal/tools"
	pkgerrors "github.com/rentgear/rentgear-backend/pkg/errors"
	"github.com/rentgear/rentgear-backend/pkg/logger"
)

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}

// ListTools returns the catalog. Customers see only bookable tools by
// default; ?include_unavailable=true shows tools under maintenance too.
func ListTools(svc toolsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeUnavailable, err := validators.ParseQueryBool(r, "include_unavailable", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListTools(r.Context(), !includeUnavailable)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetTool(svc toolsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "toolID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetTool(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type createToolRequest struct {
	Name            string   `json:"name" validate:"required"`
	Description     *string  `json:"description,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	DailyPriceCents int      `json:"daily_price_cents" validate:"min=0"`
	Stock           int      `json:"stock" validate:"min=0"`
	IsAvailable     *bool    `json:"is_available,omitempty"`
}

// CreateTool adds a catalog item. Admin only.
func CreateTool(svc toolsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createToolRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		available := true
		if payload.IsAvailable != nil {
			available = *payload.IsAvailable
		}
		result, err := svc.CreateTool(r.Context(), toolsvc.CreateToolInput{
			Name:            payload.Name,
			Description:     payload.Description,
			Categories:      payload.Categories,
			DailyPriceCents: payload.DailyPriceCents,
			Stock:           payload.Stock,
			IsAvailable:     available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type updateToolRequest struct {
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Categories      *[]string `json:"categories,omitempty"`
	DailyPriceCents *int      `json:"daily_price_cents,omitempty" validate:"omitempty,min=0"`
	Stock           *int      `json:"stock,omitempty" validate:"omitempty,min=0"`
	IsAvailable     *bool     `json:"is_available,omitempty"`
}

// UpdateTool patches a catalog item. Admin only.
func UpdateTool(svc toolsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "toolID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateToolRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateTool(r.Context(), id, toolsvc.UpdateToolInput{
			Name:            payload.Name,
			Description:     payload.Description,
			Categories:      payload.Categories,
			DailyPriceCents: payload.DailyPriceCents,
			Stock:           payload.Stock,
			IsAvailable:     payload.IsAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DeleteTool removes a catalog item. Admin only.
func DeleteTool(svc toolsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "toolID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTool(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
