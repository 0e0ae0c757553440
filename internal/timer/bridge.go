package timer

import (
	"context"
	"math"
	"time"
)

// DateLayout is the ledger's date key format.
const DateLayout = "2006-01-02"

// Ledger is the external store accumulating studied hours per date and
// subject. Repeated writes for the same key add up rather than
// overwrite.
type Ledger interface {
	AddStudyTime(ctx context.Context, subject, date string, hours float64) error
}

// Bridge converts completed study seconds into rounded-hour ledger
// records. A ledger failure is returned to the caller but never rolls
// back session state: the study happened whether or not it was
// recorded.
type Bridge struct {
	ledger Ledger
	now    func() time.Time
}

func NewBridge(ledger Ledger) *Bridge {
	return &Bridge{ledger: ledger, now: time.Now}
}

// NewBridgeAt is like NewBridge with an injectable clock.
func NewBridgeAt(ledger Ledger, now func() time.Time) *Bridge {
	return &Bridge{ledger: ledger, now: now}
}

// Hours converts seconds to hours rounded to one decimal place.
func Hours(seconds int) float64 {
	return math.Round(float64(seconds)/3600*10) / 10
}

// Commit writes a completed study segment to the ledger and returns
// the hours recorded. Segments rounding to 0.0 hours are dropped: a
// sub-6-minute sliver must not produce a record, and a genuinely zero
// segment never reaches the ledger at all.
func (b *Bridge) Commit(ctx context.Context, subject string, seconds int) (float64, error) {
	hours := Hours(seconds)
	if hours <= 0 {
		return 0, nil
	}
	date := b.now().UTC().Format(DateLayout)
	if err := b.ledger.AddStudyTime(ctx, subject, date, hours); err != nil {
		return hours, err
	}
	return hours, nil
}
