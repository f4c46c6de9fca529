package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/opticore/lenscard-backend/pkg/enums"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
)

// Alias lists are ordered: the first alias present with a finite numeric value
// wins. Unparsable or absent aliases are skipped, not zeroed, until the list
// is exhausted.
var (
	quantityAliases        = []string{"quantity", "qty"}
	rateAliases            = []string{"rate", "price", "unit_rate"}
	discountPercentAliases = []string{"discount_percent", "discount_percentage", "discountPercent", "disc_percent", "discPercent"}
	discountAmountAliases  = []string{"discount_amount", "discountAmount", "disc_amount", "discAmount"}
	amountAliases          = []string{"amount", "final_amount", "finalAmount"}
	baseCurveAliases       = []string{"base_curve", "baseCurve", "bc"}
	axisAliases            = []string{"axis"}
	eyeSideAliases         = []string{"eye_side", "side", "eyeSide"}

	paymentTotalAliases    = []string{"payment_total", "final_amount", "paymentTotal"}
	estimateAliases        = []string{"estimate", "estimated_amount"}
	advanceAliases         = []string{"advance", "total_advance"}
	balanceAliases         = []string{"balance", "balance_amount"}
	cashAdvanceAliases     = []string{"cash_advance", "cashAdvance"}
	cardUpiAdvanceAliases  = []string{"card_upi_advance", "cardUpiAdvance", "card_advance"}
	chequeAdvanceAliases   = []string{"cheque_advance", "chequeAdvance"}
	payDiscountPctAliases  = []string{"discount_percent", "discount_percentage", "discountPercent"}
	payDiscountAmtAliases  = []string{"discount_amount", "discountAmount", "scheme_amount", "schAmt"}
)

// Normalize maps the loosely-typed persisted record into the canonical
// representation. It is pure: the input maps are only read, and on error no
// partial output escapes.
func Normalize(raw RawRecord) (*CanonicalRecord, error) {
	if raw.Prescription == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNormalization, "record missing prescription section")
	}

	out := &CanonicalRecord{
		Prescription: normalizePrescription(raw.Prescription),
		Eyes:         make([]EyeRecord, 0, len(raw.Eyes)),
		Items:        make([]ItemRecord, 0, len(raw.Items)),
	}

	for i, eye := range raw.Eyes {
		if eye == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNormalization, "record eye entry is empty").
				WithDetails(map[string]any{"index": i})
		}
		out.Eyes = append(out.Eyes, normalizeEye(eye))
	}

	for i, item := range raw.Items {
		if item == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNormalization, "record item entry is empty").
				WithDetails(map[string]any{"index": i})
		}
		out.Items = append(out.Items, normalizeItem(item))
	}

	if raw.Payment != nil {
		out.Payment = normalizePayment(raw.Payment)
	}

	return out, nil
}

func normalizePrescription(m map[string]any) PrescriptionInfo {
	return PrescriptionInfo{
		PrescriptionNo:      firstString(m, "prescription_no", "prescriptionNo", "prescription_number"),
		Title:               firstString(m, "title"),
		PatientName:         firstString(m, "patient_name", "patientName", "name"),
		Age:                 firstString(m, "age"),
		Gender:              firstString(m, "gender"),
		Mobile:              firstString(m, "mobile", "phone"),
		Email:               firstString(m, "email"),
		Address:             firstString(m, "address"),
		City:                firstString(m, "city"),
		BirthDay:            firstString(m, "birth_day", "birthday", "dob"),
		MarriageAnniversary: firstString(m, "marriage_anniversary", "anniversary"),
		PrescribedBy:        firstString(m, "prescribed_by", "prescribedBy"),
		BookedBy:            firstString(m, "booked_by", "bookedBy"),
		Class:               firstString(m, "class"),
		Status:              firstString(m, "status", "order_status"),
		Remarks:             firstString(m, "remarks"),
		Date:                firstString(m, "date"),
		DeliveryDate:        firstString(m, "delivery_date", "deliveryDate"),
		DeliveryTime:        firstString(m, "delivery_time", "deliveryTime"),
		OrderStatusDate:     firstString(m, "order_status_date"),
		RetestDate:          firstString(m, "retest_date", "retestDate"),
		ExpiryDate:          firstString(m, "expiry_date", "expiryDate"),
		IPD:                 firstString(m, "ipd"),
		BalanceLens:         firstBool(m, "balance_lens", "balanceLens"),
	}
}

func normalizeEye(m map[string]any) EyeRecord {
	return EyeRecord{
		EyeSide:  enums.NormalizeEyeSide(firstString(m, eyeSideAliases...)),
		Sph:      firstString(m, "sph"),
		Cyl:      firstString(m, "cyl"),
		Axis:     firstString(m, axisAliases...),
		AddPower: firstString(m, "add_power", "addPower", "add"),
		Vn:       firstString(m, "vn", "va"),
		Rpd:      firstString(m, "rpd"),
		Lpd:      firstString(m, "lpd"),
	}
}

func normalizeItem(m map[string]any) ItemRecord {
	return ItemRecord{
		EyeSide:         enums.NormalizeEyeSide(firstString(m, eyeSideAliases...)),
		BaseCurve:       firstString(m, baseCurveAliases...),
		Power:           firstString(m, "power"),
		Material:        firstString(m, "material"),
		Dispose:         firstString(m, "dispose", "disposal"),
		Brand:           firstString(m, "brand"),
		Diameter:        firstString(m, "diameter", "dia"),
		Sph:             firstString(m, "sph"),
		Cyl:             firstString(m, "cyl"),
		Axis:            firstString(m, axisAliases...),
		LensCode:        firstString(m, "lens_code", "lensCode", "code"),
		Quantity:        firstNumber(m, quantityAliases...),
		Rate:            firstNumber(m, rateAliases...),
		DiscountPercent: firstNumber(m, discountPercentAliases...),
		DiscountAmount:  firstNumber(m, discountAmountAliases...),
		Amount:          firstNumber(m, amountAliases...),
	}
}

func normalizePayment(m map[string]any) PaymentRecord {
	return PaymentRecord{
		PaymentTotal:    firstNumber(m, paymentTotalAliases...),
		Estimate:        firstNumber(m, estimateAliases...),
		Advance:         firstNumber(m, advanceAliases...),
		Balance:         firstNumber(m, balanceAliases...),
		CashAdvance:     firstNumber(m, cashAdvanceAliases...),
		CardUpiAdvance:  firstNumber(m, cardUpiAdvanceAliases...),
		ChequeAdvance:   firstNumber(m, chequeAdvanceAliases...),
		DiscountAmount:  firstNumber(m, payDiscountAmtAliases...),
		DiscountPercent: firstNumber(m, payDiscountPctAliases...),
		SchemeDiscount:  firstBool(m, "scheme_discount", "schemeDiscount"),
		PaymentMode:     firstString(m, "payment_mode", "paymentMode"),
		PaymentDate:     firstString(m, "payment_date", "paymentDate"),
	}
}

// firstNumber walks the aliases in order and returns the first value that
// parses to a finite number. Booleans coerce to 1/0. All aliases exhausted
// means zero.
func firstNumber(m map[string]any, aliases ...string) float64 {
	for _, alias := range aliases {
		value, ok := m[alias]
		if !ok || value == nil {
			continue
		}
		if parsed, ok := parseNumber(value); ok {
			return parsed
		}
	}
	return 0
}

func parseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, isFinite(v)
	case float32:
		return float64(v), isFinite(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || !isFinite(parsed) {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// isFinite rejects NaN and the infinities. ParseFloat accepts them and a
// double column can hold them, but a non-finite value would poison every sum
// built on it, so the alias walk skips past instead.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// firstString returns the first alias with a non-empty string form. Numeric
// values are rendered back to their compact string representation since
// loosely-typed sources store display strings and numbers interchangeably.
func firstString(m map[string]any, aliases ...string) string {
	for _, alias := range aliases {
		value, ok := m[alias]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case bool:
			if v {
				return "true"
			}
			return "false"
		}
	}
	return ""
}

func firstBool(m map[string]any, aliases ...string) bool {
	for _, alias := range aliases {
		value, ok := m[alias]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case bool:
			return v
		case float64:
			return v != 0
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err == nil {
				return parsed
			}
		}
	}
	return false
}
