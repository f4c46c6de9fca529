package controllers

import (
	"time"

	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/internal/orderstate"
	"github.com/opticore/lenscard-backend/internal/session"
	"github.com/opticore/lenscard-backend/pkg/db/models"
	"github.com/opticore/lenscard-backend/pkg/enums"
)

type prescriptionPayload struct {
	PrescriptionNo      string `json:"prescription_no" validate:"required,max=64"`
	Title               string `json:"title"`
	PatientName         string `json:"patient_name" validate:"required,max=256"`
	Age                 string `json:"age"`
	Gender              string `json:"gender"`
	Mobile              string `json:"mobile"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	City                string `json:"city"`
	BirthDay            string `json:"birth_day"`
	MarriageAnniversary string `json:"marriage_anniversary"`
	PrescribedBy        string `json:"prescribed_by"`
	BookedBy            string `json:"booked_by"`
	Class               string `json:"class"`
	Status              string `json:"status"`
	Remarks             string `json:"remarks"`
	Date                string `json:"date"`
	DeliveryDate        string `json:"delivery_date"`
	DeliveryTime        string `json:"delivery_time"`
	OrderStatusDate     string `json:"order_status_date"`
	RetestDate          string `json:"retest_date"`
	ExpiryDate          string `json:"expiry_date"`
	IPD                 string `json:"ipd"`
	BalanceLens         bool   `json:"balance_lens"`
}

type eyePayload struct {
	EyeSide  string `json:"eye_side"`
	Sph      string `json:"sph"`
	Cyl      string `json:"cyl"`
	Axis     string `json:"axis"`
	AddPower string `json:"add_power"`
	Vn       string `json:"vn"`
	Rpd      string `json:"rpd"`
	Lpd      string `json:"lpd"`
}

type itemPayload struct {
	EyeSide         string  `json:"eye_side"`
	BaseCurve       string  `json:"base_curve"`
	Power           string  `json:"power"`
	Material        string  `json:"material"`
	Dispose         string  `json:"dispose"`
	Brand           string  `json:"brand"`
	Diameter        string  `json:"diameter"`
	Sph             string  `json:"sph"`
	Cyl             string  `json:"cyl"`
	Axis            string  `json:"axis"`
	LensCode        string  `json:"lens_code"`
	Quantity        float64 `json:"quantity" validate:"gte=0"`
	Rate            float64 `json:"rate" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	DiscountAmount  float64 `json:"discount_amount" validate:"gte=0"`
}

type itemResponse struct {
	EyeSide         string  `json:"eye_side"`
	BaseCurve       string  `json:"base_curve"`
	Power           string  `json:"power"`
	Material        string  `json:"material"`
	Dispose         string  `json:"dispose"`
	Brand           string  `json:"brand"`
	Diameter        string  `json:"diameter"`
	Sph             string  `json:"sph"`
	Cyl             string  `json:"cyl"`
	Axis            string  `json:"axis"`
	LensCode        string  `json:"lens_code"`
	Quantity        float64 `json:"quantity"`
	Rate            float64 `json:"rate"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountAmount  float64 `json:"discount_amount"`
	Amount          float64 `json:"amount"`
}

type paymentResponse struct {
	PaymentTotal    float64 `json:"payment_total"`
	Estimate        float64 `json:"estimate"`
	Advance         float64 `json:"advance"`
	Balance         float64 `json:"balance"`
	PaymentMode     string  `json:"payment_mode"`
	CashAdvance     float64 `json:"cash_advance"`
	CardUpiAdvance  float64 `json:"card_upi_advance"`
	ChequeAdvance   float64 `json:"cheque_advance"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountPercent float64 `json:"discount_percent"`
	SchemeDiscount  bool    `json:"scheme_discount"`
	PaymentDate     string  `json:"payment_date"`
}

type prescriptionResponse struct {
	Prescription prescriptionPayload `json:"prescription"`
	Eyes         []eyePayload        `json:"eyes"`
	Items        []itemResponse      `json:"items"`
	Payment      *paymentResponse    `json:"payment,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type stateItemResponse struct {
	EyeSide         string  `json:"eye_side"`
	BaseCurve       string  `json:"base_curve"`
	Power           string  `json:"power"`
	Material        string  `json:"material"`
	Dispose         string  `json:"dispose"`
	Brand           string  `json:"brand"`
	Diameter        string  `json:"diameter"`
	Sph             string  `json:"sph"`
	Cyl             string  `json:"cyl"`
	Axis            string  `json:"axis"`
	LensCode        string  `json:"lens_code"`
	Quantity        float64 `json:"quantity"`
	Rate            float64 `json:"rate"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountAmount  float64 `json:"discount_amount"`
	FinalAmount     float64 `json:"final_amount"`
}

type stateResponse struct {
	Provenance             string              `json:"provenance"`
	Items                  []stateItemResponse `json:"items"`
	Subtotal               float64             `json:"subtotal"`
	TotalDiscount          float64             `json:"total_discount"`
	FinalTotal             float64             `json:"final_total"`
	CashAdvance            float64             `json:"cash_advance"`
	CardUpiAdvance         float64             `json:"card_upi_advance"`
	ChequeAdvance          float64             `json:"cheque_advance"`
	TotalAdvance           float64             `json:"total_advance"`
	Balance                float64             `json:"balance"`
	OrderDiscountAmount    float64             `json:"order_discount_amount"`
	PendingDiscountPercent float64             `json:"pending_discount_percent"`
}

type sessionResponse struct {
	SessionID string        `json:"session_id"`
	Loading   bool          `json:"loading"`
	State     stateResponse `json:"state"`
}

func headerFromPayload(p prescriptionPayload) normalize.PrescriptionInfo {
	return normalize.PrescriptionInfo{
		PrescriptionNo:      p.PrescriptionNo,
		Title:               p.Title,
		PatientName:         p.PatientName,
		Age:                 p.Age,
		Gender:              p.Gender,
		Mobile:              p.Mobile,
		Email:               p.Email,
		Address:             p.Address,
		City:                p.City,
		BirthDay:            p.BirthDay,
		MarriageAnniversary: p.MarriageAnniversary,
		PrescribedBy:        p.PrescribedBy,
		BookedBy:            p.BookedBy,
		Class:               p.Class,
		Status:              p.Status,
		Remarks:             p.Remarks,
		Date:                p.Date,
		DeliveryDate:        p.DeliveryDate,
		DeliveryTime:        p.DeliveryTime,
		OrderStatusDate:     p.OrderStatusDate,
		RetestDate:          p.RetestDate,
		ExpiryDate:          p.ExpiryDate,
		IPD:                 p.IPD,
		BalanceLens:         p.BalanceLens,
	}
}

func eyesFromPayload(eyes []eyePayload) []normalize.EyeRecord {
	out := make([]normalize.EyeRecord, 0, len(eyes))
	for _, eye := range eyes {
		out = append(out, normalize.EyeRecord{
			EyeSide:  enums.NormalizeEyeSide(eye.EyeSide),
			Sph:      eye.Sph,
			Cyl:      eye.Cyl,
			Axis:     eye.Axis,
			AddPower: eye.AddPower,
			Vn:       eye.Vn,
			Rpd:      eye.Rpd,
			Lpd:      eye.Lpd,
		})
	}
	return out
}

func lineItemFromPayload(p itemPayload) orderstate.LineItem {
	return orderstate.LineItem{
		EyeSide:         enums.NormalizeEyeSide(p.EyeSide),
		BaseCurve:       p.BaseCurve,
		Power:           p.Power,
		Material:        p.Material,
		Dispose:         p.Dispose,
		Brand:           p.Brand,
		Diameter:        p.Diameter,
		Sph:             p.Sph,
		Cyl:             p.Cyl,
		Axis:            p.Axis,
		LensCode:        p.LensCode,
		Quantity:        p.Quantity,
		Rate:            p.Rate,
		DiscountPercent: p.DiscountPercent,
		DiscountAmount:  p.DiscountAmount,
	}
}

func prescriptionFromModel(record *models.Prescription) prescriptionResponse {
	resp := prescriptionResponse{
		Prescription: prescriptionPayload{
			PrescriptionNo:      record.PrescriptionNo,
			Title:               record.Title,
			PatientName:         record.Name,
			Age:                 record.Age,
			Gender:              record.Gender,
			Mobile:              record.Mobile,
			Email:               record.Email,
			Address:             record.Address,
			City:                record.City,
			BirthDay:            record.BirthDay,
			MarriageAnniversary: record.MarriageAnniversary,
			PrescribedBy:        record.PrescribedBy,
			BookedBy:            record.BookedBy,
			Class:               record.Class,
			Status:              string(record.Status),
			Remarks:             record.Remarks,
			Date:                record.Date,
			DeliveryDate:        record.DeliveryDate,
			DeliveryTime:        record.DeliveryTime,
			OrderStatusDate:     record.OrderStatusDate,
			RetestDate:          record.RetestDate,
			ExpiryDate:          record.ExpiryDate,
			IPD:                 record.IPD,
			BalanceLens:         record.BalanceLens,
		},
		Eyes:      make([]eyePayload, 0, len(record.Eyes)),
		Items:     make([]itemResponse, 0, len(record.Items)),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}

	for _, eye := range record.Eyes {
		resp.Eyes = append(resp.Eyes, eyePayload{
			EyeSide:  eye.EyeSide,
			Sph:      eye.Sph,
			Cyl:      eye.Cyl,
			Axis:     eye.Axis,
			AddPower: eye.AddPower,
			Vn:       eye.Vn,
			Rpd:      eye.Rpd,
			Lpd:      eye.Lpd,
		})
	}

	for _, item := range record.Items {
		resp.Items = append(resp.Items, itemResponse{
			EyeSide:         item.EyeSide,
			BaseCurve:       item.BaseCurve,
			Power:           item.Power,
			Material:        item.Material,
			Dispose:         item.Dispose,
			Brand:           item.Brand,
			Diameter:        item.Diameter,
			Sph:             item.Sph,
			Cyl:             item.Cyl,
			Axis:            item.Axis,
			LensCode:        item.LensCode,
			Quantity:        item.Quantity,
			Rate:            item.Rate,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			Amount:          item.Amount,
		})
	}

	if record.Payment != nil {
		resp.Payment = &paymentResponse{
			PaymentTotal:    record.Payment.PaymentTotal,
			Estimate:        record.Payment.Estimate,
			Advance:         record.Payment.Advance,
			Balance:         record.Payment.Balance,
			PaymentMode:     string(record.Payment.PaymentMode),
			CashAdvance:     record.Payment.CashAdvance,
			CardUpiAdvance:  record.Payment.CardUpiAdvance,
			ChequeAdvance:   record.Payment.ChequeAdvance,
			DiscountAmount:  record.Payment.DiscountAmount,
			DiscountPercent: record.Payment.DiscountPercent,
			SchemeDiscount:  record.Payment.SchemeDiscount,
			PaymentDate:     record.Payment.PaymentDate,
		}
	}

	return resp
}

func snapshotResponse(snap session.Snapshot) sessionResponse {
	state := stateResponse{
		Provenance:             string(snap.State.Provenance),
		Items:                  make([]stateItemResponse, 0, len(snap.State.Items)),
		Subtotal:               snap.State.Subtotal,
		TotalDiscount:          snap.State.TotalDiscount,
		FinalTotal:             snap.State.FinalTotal,
		CashAdvance:            snap.State.CashAdvance,
		CardUpiAdvance:         snap.State.CardUpiAdvance,
		ChequeAdvance:          snap.State.ChequeAdvance,
		TotalAdvance:           snap.State.TotalAdvance,
		Balance:                snap.State.Balance,
		OrderDiscountAmount:    snap.State.OrderDiscountAmount,
		PendingDiscountPercent: snap.State.PendingDiscountPercent,
	}

	for _, item := range snap.State.Items {
		state.Items = append(state.Items, stateItemResponse{
			EyeSide:         string(item.EyeSide),
			BaseCurve:       item.BaseCurve,
			Power:           item.Power,
			Material:        item.Material,
			Dispose:         item.Dispose,
			Brand:           item.Brand,
			Diameter:        item.Diameter,
			Sph:             item.Sph,
			Cyl:             item.Cyl,
			Axis:            item.Axis,
			LensCode:        item.LensCode,
			Quantity:        item.Quantity,
			Rate:            item.Rate,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			FinalAmount:     item.FinalAmount,
		})
	}

	return sessionResponse{
		SessionID: snap.ID.String(),
		Loading:   snap.Loading,
		State:     state,
	}
}
