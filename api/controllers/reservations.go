package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rentgear/rentgear-backend/api/middleware"
	"github.com/rentgear/rentgear-backend/api/responses"
	"github.com/rentgear/rentgear-backend/api/validators"
	reservationsvc "github.com/rentgear/rentgear-backend/internal/reservations"
	"github.com/rentgear/rentgear-backend/pkg/dates"
	"github.com/rentgear/rentgear-backend/pkg/enums"
	pkgerrors "github.com/rentgear/rentgear-backend/pkg/errors"
	"github.com/rentgear/rentgear-backend/pkg/logger"
)

func actorFromContext(r *http.Request) (uuid.UUID, bool, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	admin := middleware.RoleFromContext(r.Context()) == string(enums.UserRoleAdmin)
	return userID, admin, nil
}

type reservationLineRequest struct {
	ToolID    string `json:"tool_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func (line reservationLineRequest) toInput() (reservationsvc.CreateReservationInput, error) {
	toolID, err := uuid.Parse(line.ToolID)
	if err != nil {
		return reservationsvc.CreateReservationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tool_id")
	}
	start, err := dates.Parse(line.StartDate)
	if err != nil {
		return reservationsvc.CreateReservationInput{}, err
	}
	end, err := dates.Parse(line.EndDate)
	if err != nil {
		return reservationsvc.CreateReservationInput{}, err
	}
	return reservationsvc.CreateReservationInput{
		ToolID:    toolID,
		StartDate: start,
		EndDate:   end,
		Quantity:  line.Quantity,
	}, nil
}

// CreateReservation books one tool for the authenticated user.
func CreateReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reservationLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type batchReservationRequest struct {
	Lines []reservationLineRequest `json:"lines" validate:"required,min=1,max=25,dive"`
}

// CreateReservationBatch books a cart of lines atomically.
func CreateReservationBatch(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload batchReservationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]reservationsvc.CreateReservationInput, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			input, err := line.toInput()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			inputs = append(inputs, input)
		}

		result, err := svc.CreateBatch(r.Context(), userID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListMyReservations returns the authenticated user's bookings.
func ListMyReservations(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListAllReservations returns every booking, optionally filtered with
// ?status=. Admin only.
func ListAllReservations(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.ReservationStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseReservationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		result, err := svc.ListAll(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetReservation returns one reservation; owners and admins only.
func GetReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, admin, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "reservationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), id, userID, admin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CancelReservation voids an active booking; owners and admins only.
func CancelReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, admin, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "reservationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Cancel(r.Context(), id, userID, admin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type transitionFunc func(r *http.Request, svc reservationsvc.Service, id uuid.UUID) (*reservationsvc.ReservationDTO, error)

func reservationTransition(svc reservationsvc.Service, logg *logger.Logger, apply transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "reservationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := apply(r, svc, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DeliverReservation marks an active booking as handed to the customer. Admin only.
func DeliverReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return reservationTransition(svc, logg, func(r *http.Request, svc reservationsvc.Service, id uuid.UUID) (*reservationsvc.ReservationDTO, error) {
		return svc.MarkDelivered(r.Context(), id)
	})
}

// ReturnReservation marks a booking's units as back on the shelf. Admin only.
func ReturnReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return reservationTransition(svc, logg, func(r *http.Request, svc reservationsvc.Service, id uuid.UUID) (*reservationsvc.ReservationDTO, error) {
		return svc.MarkReturned(r.Context(), id)
	})
}

// ArchiveReservation soft-deletes a booking. Admin only.
func ArchiveReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return reservationTransition(svc, logg, func(r *http.Request, svc reservationsvc.Service, id uuid.UUID) (*reservationsvc.ReservationDTO, error) {
		return svc.Archive(r.Context(), id)
	})
}

// RestoreReservation undoes an archive. Admin only.
func RestoreReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return reservationTransition(svc, logg, func(r *http.Request, svc reservationsvc.Service, id uuid.UUID) (*reservationsvc.ReservationDTO, error) {
		return svc.Restore(r.Context(), id)
	})
}
