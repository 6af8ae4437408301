// Package inventory enumerates EC2 instances and converts them into
// InstanceRecords. It performs read-only calls and applies no filtering.
package inventory

import (
	"context"

	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/common"
)

// Collector gathers the instance inventory for one region.
// Implementations must not retry; transport and auth failures are returned
// to the caller unchanged apart from wrapping.
type Collector interface {
	// CollectInstances returns every instance visible to client, in the order
	// DescribeInstances returned them (reservation order, then instance order).
	CollectInstances(ctx context.Context, client common.EC2Client, region string) ([]models.InstanceRecord, error)
}

// DefaultCollector is the production Collector.
type DefaultCollector struct{}

// NewDefaultCollector returns a collector backed by the EC2 paginator.
func NewDefaultCollector() *DefaultCollector {
	return &DefaultCollector{}
}

// CollectInstances implements Collector.
func (DefaultCollector) CollectInstances(ctx context.Context, client common.EC2Client, region string) ([]models.InstanceRecord, error) {
	return collectInstances(ctx, client, region)
}
