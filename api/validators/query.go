package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
)

func RequireQueryString(r *http.Request, key string, maxLen int) (string, error) {
	raw := SanitizeString(r.URL.Query().Get(key), maxLen)
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}

func OptionalQueryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	switch strings.ToLower(raw) {
	case "":
		return false, nil
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
}
