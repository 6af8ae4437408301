// Package billing queries Cost Explorer for a single one-day window and
// extracts the account-level total.
package billing

import (
	"context"
	"errors"

	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/common"
)

// DefaultMetric is the Cost Explorer metric reported when none is configured.
const DefaultMetric = "UnblendedCost"

var (
	// ErrUnexpectedResultCount is returned when a one-day query does not
	// yield exactly one ResultsByTime entry.
	ErrUnexpectedResultCount = errors.New("cost explorer: expected exactly one result for a one-day window")

	// ErrMetricMissing is returned when the result has no Total for the metric.
	ErrMetricMissing = errors.New("cost explorer: metric missing from result total")

	// ErrInvalidAmount is returned when the metric amount is not a decimal.
	ErrInvalidAmount = errors.New("cost explorer: metric amount is not a decimal")
)

// Aggregator returns the billing total for one window.
type Aggregator interface {
	// CollectDailyCost queries client for w and returns exactly one summary.
	// client must be scoped to us-east-1.
	CollectDailyCost(ctx context.Context, client common.CostExplorerClient, w Window) (*models.CostSummary, error)
}

// DefaultAggregator is the production Aggregator.
type DefaultAggregator struct {
	metric string
}

// Option configures a DefaultAggregator.
type Option func(*DefaultAggregator)

// WithMetric selects the Cost Explorer metric (e.g. "BlendedCost").
// An empty name keeps the default.
func WithMetric(metric string) Option {
	return func(a *DefaultAggregator) {
		if metric != "" {
			a.metric = metric
		}
	}
}

// NewDefaultAggregator returns an aggregator reporting DefaultMetric unless
// overridden by opts.
func NewDefaultAggregator(opts ...Option) *DefaultAggregator {
	a := &DefaultAggregator{metric: DefaultMetric}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Metric returns the metric name this aggregator queries.
func (a *DefaultAggregator) Metric() string {
	return a.metric
}

// CollectDailyCost implements Aggregator.
func (a *DefaultAggregator) CollectDailyCost(ctx context.Context, client common.CostExplorerClient, w Window) (*models.CostSummary, error) {
	return collectDailyCost(ctx, client, w, a.metric)
}
