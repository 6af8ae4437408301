package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownName is the display name used for instances without a Name tag.
const UnknownName = "unknown"

// ---------------------------------------------------------------------------
// EC2 inventory models
// ---------------------------------------------------------------------------

// InstanceRecord represents a single collected EC2 instance.
// Records are immutable once collected; slice order follows the order in
// which DescribeInstances returned them.
type InstanceRecord struct {
	ID           string `json:"instance_id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	InstanceType string `json:"instance_type,omitempty"`
	Region       string `json:"region,omitempty"`
}

// ---------------------------------------------------------------------------
// Cost Explorer models
// ---------------------------------------------------------------------------

// CostSummary holds the account-level spend for exactly one billing window.
type CostSummary struct {
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Metric      string          `json:"metric"`
	Amount      decimal.Decimal `json:"amount"`
	Unit        string          `json:"unit"`
}

// AmountString returns the amount as a decimal string rounded to cents.
func (c CostSummary) AmountString() string {
	return c.Amount.StringFixed(2)
}

// ---------------------------------------------------------------------------
// Report artifact
// ---------------------------------------------------------------------------

// ReportResult describes one generated report. The report has no identity
// beyond its date: LocalPath and Key both embed Date.
type ReportResult struct {
	Date        string           `json:"date"`
	GeneratedAt time.Time        `json:"generated_at"`
	AccountID   string           `json:"account_id,omitempty"`
	Region      string           `json:"region"`
	LocalPath   string           `json:"local_path"`
	Bucket      string           `json:"bucket,omitempty"`
	Key         string           `json:"key,omitempty"`
	Uploaded    bool             `json:"uploaded"`
	Pages       int              `json:"pages"`
	Instances   []InstanceRecord `json:"instances"`
	Cost        CostSummary      `json:"cost"`
}
