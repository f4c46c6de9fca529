package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opticore/lenscard-backend/api/responses"
	"github.com/opticore/lenscard-backend/api/validators"
	"github.com/opticore/lenscard-backend/internal/orderstate"
	"github.com/opticore/lenscard-backend/internal/session"
	"github.com/opticore/lenscard-backend/pkg/enums"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
	"github.com/opticore/lenscard-backend/pkg/logger"
)

const (
	eventFieldEdited     = "field_edited"
	eventItemAdded       = "item_added"
	eventItemsReplaced   = "items_replaced"
	eventDiscountApplied = "discount_applied"
	eventCleared         = "cleared"
)

type sessionEventRequest struct {
	Type string `json:"type" validate:"required,oneof=field_edited item_added items_replaced discount_applied cleared"`

	// field_edited
	Field string   `json:"field,omitempty"`
	Value *float64 `json:"value,omitempty"`

	// item_added / items_replaced
	Item  *itemPayload  `json:"item,omitempty"`
	Items []itemPayload `json:"items,omitempty"`

	// discount_applied
	Percent *float64 `json:"percent,omitempty"`
	Confirm bool     `json:"confirm,omitempty"`
}

// OpenSession starts a fresh order session in the initial state.
func OpenSession(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Open(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, snapshotResponse(snap))
	}
}

// LoadSession hydrates the session from the stored record.
func LoadSession(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := parseSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prescriptionNo := validators.SanitizeString(chi.URLParam(r, "prescriptionNo"), 64)

		snap, err := svc.Load(r.Context(), sessionID, prescriptionNo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshotResponse(snap))
	}
}

// ApplySessionEvent decodes one tagged event and runs it through the session.
func ApplySessionEvent(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := parseSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sessionEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ev, err := eventFromRequest(body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Apply(r.Context(), sessionID, ev)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshotResponse(snap))
	}
}

// GetSession returns the current financial snapshot.
func GetSession(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := parseSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshotResponse(snap))
	}
}

func parseSessionID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "sessionId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id")
	}
	return id, nil
}

func eventFromRequest(body sessionEventRequest) (orderstate.Event, error) {
	switch body.Type {
	case eventFieldEdited:
		field, err := enums.ParsePaymentField(body.Field)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment field")
		}
		if body.Value == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "value is required for field_edited")
		}
		return orderstate.FieldEdited{Field: field, Value: *body.Value}, nil

	case eventItemAdded:
		if body.Item == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is required for item_added")
		}
		return orderstate.ItemAdded{Item: lineItemFromPayload(*body.Item)}, nil

	case eventItemsReplaced:
		items := make([]orderstate.LineItem, 0, len(body.Items))
		for _, item := range body.Items {
			items = append(items, lineItemFromPayload(item))
		}
		return orderstate.ItemsReplaced{Items: items}, nil

	case eventDiscountApplied:
		if body.Percent == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent is required for discount_applied")
		}
		return orderstate.DiscountApplied{Percent: *body.Percent, Confirmed: body.Confirm}, nil

	case eventCleared:
		return orderstate.Cleared{}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown event type %q", body.Type))
}
