package validators

import (
	"net/http"
	"strings"
	"time"

	"github.com/rentgear/rentgear-backend/pkg/dates"
	pkgerrors "github.com/rentgear/rentgear-backend/pkg/errors"
)

// ParseQueryDate reads a required YYYY-MM-DD query parameter.
func ParseQueryDate(r *http.Request, key string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "query parameter required").WithDetails(map[string]any{"field": key})
	}
	value, err := dates.Parse(raw)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return time.Time{}, typed.WithDetails(map[string]any{"field": key})
		}
		return time.Time{}, err
	}
	return value, nil
}
