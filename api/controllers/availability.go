package controllers

import (
	"net/http"

	"github.com/rentgear/rentgear-backend/api/responses"
	"github.com/rentgear/rentgear-backend/api/validators"
	reservationsvc "github.com/rentgear/rentgear-backend/internal/reservations"
	"github.com/rentgear/rentgear-backend/pkg/logger"
)

// CheckAvailability answers whether ?qty units of the tool are free over
// ?start=YYYY-MM-DD&end=YYYY-MM-DD, less ?held units the caller's cart
// already claims. This is a hint for the storefront; the authoritative check
// happens again when the booking commits.
func CheckAvailability(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		toolID, err := pathUUID(r, "toolID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		start, err := validators.ParseQueryDate(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty, err := validators.ParseQueryInt(r, "qty", 1, 1, 1000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		held, err := validators.ParseQueryInt(r, "held", 0, 0, 1000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CheckAvailability(r.Context(), toolID, start, end, qty, held)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Calendar returns a per-day availability grid for the tool.
func Calendar(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		toolID, err := pathUUID(r, "toolID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		start, err := validators.ParseQueryDate(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grid, err := svc.DayGrid(r.Context(), toolID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, grid)
	}
}
