package orderstate

import (
	"strconv"
	"strings"

	"github.com/opticore/lenscard-backend/pkg/money"
)

// DeriveIPD combines the per-eye pupillary half-distances. Both present and
// numeric: their sum rounded to one decimal. Both absent: cleared. Only one
// present: the current value is left alone, the single-sided case is
// deliberately not inferred.
func DeriveIPD(rpd, lpd, current string) string {
	rpd = strings.TrimSpace(rpd)
	lpd = strings.TrimSpace(lpd)

	if rpd == "" && lpd == "" {
		return ""
	}

	right, rightErr := strconv.ParseFloat(rpd, 64)
	left, leftErr := strconv.ParseFloat(lpd, 64)
	if rightErr != nil || leftErr != nil {
		return current
	}

	return strconv.FormatFloat(money.Round1(right+left), 'f', -1, 64)
}
