// Package subscription derives recurring-payment candidates from the
// persisted transaction history. Detection is a pure function over the
// full history: no incremental state, recomputed from scratch each call.
package subscription

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/HiraG-62/maillet/internal/logging"
	"github.com/HiraG-62/maillet/internal/merchant"
	"github.com/HiraG-62/maillet/internal/models"
)

// Billing-interval windows in days.
const (
	monthlyMinGap = 25
	monthlyMaxGap = 35
	yearlyMinGap  = 350
	yearlyMaxGap  = 380

	// Gap standard-deviation bounds. Above the medium bound the repeats
	// are treated as coincidental, not a subscription.
	highConfidenceStdDev   = 5
	mediumConfidenceStdDev = 10
)

// Detector analyzes transaction history for recurring payments.
type Detector struct {
	logger logging.Logger
}

// NewDetector creates a detector.
func NewDetector(logger logging.Logger) *Detector {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Detector{logger: logger}
}

type groupKey struct {
	merchant string
	amount   int64
}

// Detect groups transactions by merchant and exact amount, classifies
// each group's billing periodicity, and returns the surviving candidates
// as a flat, unordered list.
func (d *Detector) Detect(txs []models.PersistedTransaction) []models.DetectedSubscription {
	groups := make(map[groupKey][]models.PersistedTransaction)
	for _, tx := range txs {
		name := strings.ToLower(strings.TrimSpace(tx.Merchant))
		if name == "" {
			// Merchantless rows would collapse into one meaningless group.
			continue
		}
		key := groupKey{merchant: name, amount: tx.Amount}
		groups[key] = append(groups[key], tx)
	}

	var detected []models.DetectedSubscription
	for key, group := range groups {
		if len(group) < 2 {
			continue
		}
		sub, ok := d.classify(key, group)
		if !ok {
			continue
		}
		detected = append(detected, sub)
	}

	return mergeCanonical(detected)
}

// classify computes the gap statistics for one merchant/amount group and
// keeps it only when the cadence looks like a real subscription.
func (d *Detector) classify(key groupKey, group []models.PersistedTransaction) (models.DetectedSubscription, bool) {
	dates := make([]time.Time, len(group))
	for i, tx := range group {
		dates[i] = tx.TransactionDate
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/24)
	}

	mean := meanOf(gaps)
	var frequency string
	switch {
	case mean >= monthlyMinGap && mean <= monthlyMaxGap:
		frequency = models.FrequencyMonthly
	case mean >= yearlyMinGap && mean <= yearlyMaxGap:
		frequency = models.FrequencyYearly
	default:
		return models.DetectedSubscription{}, false
	}

	stdDev := populationStdDev(gaps, mean)
	var confidence string
	switch {
	case stdDev < highConfidenceStdDev:
		confidence = models.ConfidenceHigh
	case stdDev <= mediumConfidenceStdDev:
		confidence = models.ConfidenceMedium
	default:
		return models.DetectedSubscription{}, false
	}

	last := dates[len(dates)-1]
	d.logger.Debug("subscription candidate",
		logging.Field{Key: logging.FieldMerchant, Value: key.merchant},
		logging.Field{Key: logging.FieldAmount, Value: key.amount},
		logging.Field{Key: "mean_gap", Value: mean},
		logging.Field{Key: "stddev", Value: stdDev})

	return models.DetectedSubscription{
		Merchant:          key.merchant,
		Amount:            key.amount,
		Frequency:         frequency,
		Confidence:        confidence,
		Occurrences:       len(group),
		LastDate:          last,
		NextEstimatedDate: last.AddDate(0, 0, int(math.Round(mean))),
		Dates:             dates,
	}, true
}

// mergeCanonical collapses entries that collide once merchants are run
// through the canonical normalizer, which is stronger than the grouping
// normalization above. The entry with more occurrences wins.
func mergeCanonical(entries []models.DetectedSubscription) []models.DetectedSubscription {
	type canonicalKey struct {
		merchant string
		amount   int64
	}
	best := make(map[canonicalKey]models.DetectedSubscription)
	var order []canonicalKey
	for _, entry := range entries {
		key := canonicalKey{
			merchant: strings.ToLower(merchant.Normalize(entry.Merchant)),
			amount:   entry.Amount,
		}
		current, ok := best[key]
		if !ok {
			best[key] = entry
			order = append(order, key)
			continue
		}
		if entry.Occurrences > current.Occurrences {
			best[key] = entry
		}
	}
	out := make([]models.DetectedSubscription, 0, len(best))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by N, not N-1: the gaps are the whole
// population for this group, not a sample.
func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)))
}
