package billing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/shopspring/decimal"

	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/common"
)

// collectDailyCost calls Cost Explorer GetCostAndUsage for [w.Start, w.End)
// at DAILY granularity and extracts the single result's total for metric.
func collectDailyCost(
	ctx context.Context,
	client common.CostExplorerClient,
	w Window,
	metric string,
) (*models.CostSummary, error) {
	out, err := client.GetCostAndUsage(ctx, &ce.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: aws.String(w.Start),
			End:   aws.String(w.End),
		},
		Granularity: cetypes.GranularityDaily,
		Metrics:     []string{metric},
	})
	if err != nil {
		return nil, fmt.Errorf("GetCostAndUsage: %w", err)
	}

	if n := len(out.ResultsByTime); n != 1 {
		return nil, fmt.Errorf("%w: got %d for %s..%s", ErrUnexpectedResultCount, n, w.Start, w.End)
	}
	result := out.ResultsByTime[0]

	value, ok := result.Total[metric]
	if !ok || value.Amount == nil {
		return nil, fmt.Errorf("%w: %s", ErrMetricMissing, metric)
	}

	amount, err := decimal.NewFromString(aws.ToString(value.Amount))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, aws.ToString(value.Amount), err)
	}

	return &models.CostSummary{
		PeriodStart: w.Start,
		PeriodEnd:   w.End,
		Metric:      metric,
		Amount:      amount,
		Unit:        aws.ToString(value.Unit),
	}, nil
}
