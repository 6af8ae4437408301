package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

// ── stubs ────────────────────────────────────────────────────────────────────

type stubCE struct {
	out   *ce.GetCostAndUsageOutput
	err   error
	input *ce.GetCostAndUsageInput
}

func (s *stubCE) GetCostAndUsage(_ context.Context, in *ce.GetCostAndUsageInput, _ ...func(*ce.Options)) (*ce.GetCostAndUsageOutput, error) {
	s.input = in
	return s.out, s.err
}

func resultWith(metric, amount, unit string) cetypes.ResultByTime {
	return cetypes.ResultByTime{
		Total: map[string]cetypes.MetricValue{
			metric: {Amount: aws.String(amount), Unit: aws.String(unit)},
		},
	}
}

var testWindow = Window{Start: "2026-10-18", End: "2026-10-19"}

// ── DailyWindow ──────────────────────────────────────────────────────────────

func TestDailyWindow_SpansOneDayEndingToday(t *testing.T) {
	now := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	w := DailyWindow(now)
	if w.Start != "2026-10-18" || w.End != "2026-10-19" {
		t.Errorf("window = %+v; want 2026-10-18..2026-10-19", w)
	}
}

func TestDailyWindow_UsesUTCDate(t *testing.T) {
	// 01:00 on the 20th in UTC+5 is still the 19th in UTC.
	loc := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2026, 10, 20, 1, 0, 0, 0, loc)
	w := DailyWindow(now)
	if w.End != "2026-10-19" {
		t.Errorf("End = %q; want UTC date 2026-10-19", w.End)
	}
}

func TestDailyWindow_CrossesMonthAndYear(t *testing.T) {
	w := DailyWindow(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	if w.Start != "2026-12-31" || w.End != "2027-01-01" {
		t.Errorf("window = %+v; want 2026-12-31..2027-01-01", w)
	}

	start, _ := time.Parse(DateLayout, w.Start)
	end, _ := time.Parse(DateLayout, w.End)
	if end.Sub(start) != 24*time.Hour {
		t.Errorf("window length = %v; want 24h", end.Sub(start))
	}
}

// ── collectDailyCost ─────────────────────────────────────────────────────────

func TestCollectDailyCost_RequestShape(t *testing.T) {
	client := &stubCE{out: &ce.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{resultWith("UnblendedCost", "1.5", "USD")},
	}}

	if _, err := NewDefaultAggregator().CollectDailyCost(context.Background(), client, testWindow); err != nil {
		t.Fatalf("CollectDailyCost: %v", err)
	}

	in := client.input
	if aws.ToString(in.TimePeriod.Start) != "2026-10-18" || aws.ToString(in.TimePeriod.End) != "2026-10-19" {
		t.Errorf("TimePeriod = %s..%s; want 2026-10-18..2026-10-19",
			aws.ToString(in.TimePeriod.Start), aws.ToString(in.TimePeriod.End))
	}
	if in.Granularity != cetypes.GranularityDaily {
		t.Errorf("Granularity = %q; want DAILY", in.Granularity)
	}
	if len(in.Metrics) != 1 || in.Metrics[0] != "UnblendedCost" {
		t.Errorf("Metrics = %v; want [UnblendedCost]", in.Metrics)
	}
}

func TestCollectDailyCost_ExtractsAmountAndUnit(t *testing.T) {
	client := &stubCE{out: &ce.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{resultWith("UnblendedCost", "12.3456789", "USD")},
	}}

	got, err := collectDailyCost(context.Background(), client, testWindow, "UnblendedCost")
	if err != nil {
		t.Fatalf("collectDailyCost: %v", err)
	}
	if got.Amount.String() != "12.3456789" {
		t.Errorf("Amount = %s; want 12.3456789 (no float rounding)", got.Amount)
	}
	if got.AmountString() != "12.35" {
		t.Errorf("AmountString = %s; want 12.35", got.AmountString())
	}
	if got.Unit != "USD" {
		t.Errorf("Unit = %q; want USD", got.Unit)
	}
	if got.PeriodStart != testWindow.Start || got.PeriodEnd != testWindow.End {
		t.Errorf("period = %s..%s; want window passed in", got.PeriodStart, got.PeriodEnd)
	}
	if got.Metric != "UnblendedCost" {
		t.Errorf("Metric = %q; want UnblendedCost", got.Metric)
	}
}

func TestCollectDailyCost_CustomMetric(t *testing.T) {
	client := &stubCE{out: &ce.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{resultWith("BlendedCost", "3", "USD")},
	}}
	agg := NewDefaultAggregator(WithMetric("BlendedCost"))
	if agg.Metric() != "BlendedCost" {
		t.Fatalf("Metric() = %q; want BlendedCost", agg.Metric())
	}

	got, err := agg.CollectDailyCost(context.Background(), client, testWindow)
	if err != nil {
		t.Fatalf("CollectDailyCost: %v", err)
	}
	if client.input.Metrics[0] != "BlendedCost" {
		t.Errorf("requested metric = %q; want BlendedCost", client.input.Metrics[0])
	}
	if got.AmountString() != "3.00" {
		t.Errorf("AmountString = %s; want 3.00", got.AmountString())
	}
}

func TestWithMetric_EmptyKeepsDefault(t *testing.T) {
	if m := NewDefaultAggregator(WithMetric("")).Metric(); m != DefaultMetric {
		t.Errorf("Metric() = %q; want %q", m, DefaultMetric)
	}
}

func TestCollectDailyCost_ZeroResults(t *testing.T) {
	client := &stubCE{out: &ce.GetCostAndUsageOutput{}}
	_, err := collectDailyCost(context.Background(), client, testWindow, "UnblendedCost")
	if !errors.Is(err, ErrUnexpectedResultCount) {
		t.Fatalf("err = %v; want ErrUnexpectedResultCount", err)
	}
}

func TestCollectDailyCost_MultipleResults(t *testing.T) {
	client := &stubCE{out: &ce.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{
			resultWith("UnblendedCost", "1", "USD"),
			resultWith("UnblendedCost", "2", "USD"),
		},
	}}
	_, err := collectDailyCost(context.Background(), client, testWindow, "UnblendedCost")
	if !errors.Is(err, ErrUnexpectedResultCount) {
		t.Fatalf("err = %v; want ErrUnexpectedResultCount", err)
	}
}

func TestCollectDailyCost_MetricMissing(t *testing.T) {
	client := &stubCE{out: &ce.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{resultWith("BlendedCost", "1", "USD")},
	}}
	_, err := collectDailyCost(context.Background(), client, testWindow, "UnblendedCost")
	if !errors.Is(err, ErrMetricMissing) {
		t.Fatalf("err = %v; want ErrMetricMissing", err)
	}
}

func TestCollectDailyCost_NilAmount(t *testing.T) {
	client := &stubCE{out: &ce.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{{
			Total: map[string]cetypes.MetricValue{"UnblendedCost": {Unit: aws.String("USD")}},
		}},
	}}
	_, err := collectDailyCost(context.Background(), client, testWindow, "UnblendedCost")
	if !errors.Is(err, ErrMetricMissing) {
		t.Fatalf("err = %v; want ErrMetricMissing", err)
	}
}

func TestCollectDailyCost_InvalidAmount(t *testing.T) {
	client := &stubCE{out: &ce.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{resultWith("UnblendedCost", "twelve", "USD")},
	}}
	_, err := collectDailyCost(context.Background(), client, testWindow, "UnblendedCost")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v; want ErrInvalidAmount", err)
	}
}

func TestCollectDailyCost_APIErrorPropagates(t *testing.T) {
	apiErr := errors.New("AccessDeniedException")
	client := &stubCE{err: apiErr}
	_, err := collectDailyCost(context.Background(), client, testWindow, "UnblendedCost")
	if !errors.Is(err, apiErr) {
		t.Fatalf("err = %v; want wrapped %v", err, apiErr)
	}
}
