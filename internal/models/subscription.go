package models

import "time"

// Subscription billing frequency.
const (
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Detection confidence, derived from the variance of the billing interval.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// DetectedSubscription is a recurring-payment candidate derived from the
// persisted transaction history. It is recomputed from scratch on every
// detection run and never persisted.
type DetectedSubscription struct {
	Merchant          string      `json:"merchant" yaml:"merchant"`
	Amount            int64       `json:"amount" yaml:"amount"`
	Frequency         string      `json:"frequency" yaml:"frequency"`
	Confidence        string      `json:"confidence" yaml:"confidence"`
	Occurrences       int         `json:"occurrences" yaml:"occurrences"`
	LastDate          time.Time   `json:"lastDate" yaml:"last_date"`
	NextEstimatedDate time.Time   `json:"nextEstimatedDate" yaml:"next_estimated_date"`
	Dates             []time.Time `json:"dates" yaml:"dates"`
}
