package manufacturing

import (
	"context"
	"fmt"
	"time"
)

// NumberSequence hands out per-period sequence values for order numbers.
// Next must be safe under concurrent callers and never reuse a value.
type NumberSequence interface {
	Next(ctx context.Context, period string) (int64, error)
}

// SequencePeriod returns the numbering period (year and month) for t
func SequencePeriod(t time.Time) string {
	return t.Format("200601")
}

// FormatOrderNumber renders MO<year><month><sequence>, e.g. MO2024030007
func FormatOrderNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("MO%s%04d", SequencePeriod(t), seq)
}
