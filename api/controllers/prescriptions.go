package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opticore/lenscard-backend/api/responses"
	"github.com/opticore/lenscard-backend/api/validators"
	"github.com/opticore/lenscard-backend/internal/prescriptions"
	"github.com/opticore/lenscard-backend/internal/session"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
	"github.com/opticore/lenscard-backend/pkg/logger"
)

type savePrescriptionRequest struct {
	SessionID    string              `json:"session_id" validate:"required,uuid"`
	Prescription prescriptionPayload `json:"prescription"`
	Eyes         []eyePayload        `json:"eyes" validate:"max=2"`
	PaymentMode  string              `json:"payment_mode"`
	PaymentDate  string              `json:"payment_date"`
}

// SavePrescription persists the session's financial state together with the
// descriptive header the operator entered. The stored figures come from the
// session, never from the request body.
func SavePrescription(sessions session.Service, svc prescriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body savePrescriptionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := uuid.Parse(body.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id"))
			return
		}

		snap, err := sessions.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if snap.Loading {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot save while a record load is in progress"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSessionID(ctx, snap.ID.String())
			ctx = logg.WithPrescriptionNo(ctx, body.Prescription.PrescriptionNo)
		}

		record, err := svc.Save(ctx, prescriptions.SaveInput{
			Prescription: headerFromPayload(body.Prescription),
			Eyes:         eyesFromPayload(body.Eyes),
			State:        snap.State,
			PaymentMode:  body.PaymentMode,
			PaymentDate:  body.PaymentDate,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, prescriptionFromModel(record))
	}
}

// GetPrescription returns the raw persisted record. Stored values are served
// verbatim, nothing is recomputed on read.
func GetPrescription(svc prescriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionNo := validators.SanitizeString(chi.URLParam(r, "prescriptionNo"), 64)

		record, err := svc.Get(r.Context(), prescriptionNo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, prescriptionFromModel(record))
	}
}

// NavigatePrescription moves through records ordered by last update. Relative
// moves take the current record in the "from" query parameter.
func NavigatePrescription(svc prescriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		direction := prescriptions.NavDirection(chi.URLParam(r, "direction"))

		var currentNo string
		if direction == prescriptions.NavNext || direction == prescriptions.NavPrev {
			from, err := validators.RequireQueryString(r, "from", 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			currentNo = from
		}

		record, err := svc.Navigate(r.Context(), direction, currentNo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, prescriptionFromModel(record))
	}
}
