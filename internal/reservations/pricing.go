package reservations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentgear/rentgear-backend/pkg/dates"
	"github.com/rentgear/rentgear-backend/pkg/db/models"
)

// QuoteTotalCents prices a rental: daily rate times inclusive days times
// quantity. Decimal arithmetic keeps this exact if per-day discounts or tax
// rates land on the rate later.
func QuoteTotalCents(tool *models.Tool, start, end time.Time, qty int) int {
	days := dates.DaysInclusive(start, end)
	total := decimal.NewFromInt(int64(tool.DailyPriceCents)).
		Mul(decimal.NewFromInt(int64(days))).
		Mul(decimal.NewFromInt(int64(qty)))
	return int(total.IntPart())
}
