package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
)

// NameTagKey is the tag whose value becomes the instance display name.
const NameTagKey = "Name"

// collectInstances pages through every EC2 instance in region, regardless of
// state, and converts each to an InstanceRecord.
func collectInstances(ctx context.Context, client ec2svc.DescribeInstancesAPIClient, region string) ([]models.InstanceRecord, error) {
	paginator := ec2svc.NewDescribeInstancesPaginator(client, &ec2svc.DescribeInstancesInput{})

	records := []models.InstanceRecord{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances page: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				records = append(records, toInstanceRecord(inst, region))
			}
		}
	}
	return records, nil
}

// toInstanceRecord converts an SDK EC2 instance to the internal model.
// ID and state are copied unconditionally; the name falls back to
// models.UnknownName when no Name tag is present.
func toInstanceRecord(inst ec2types.Instance, region string) models.InstanceRecord {
	var state string
	if inst.State != nil {
		state = string(inst.State.Name)
	}

	return models.InstanceRecord{
		ID:           aws.ToString(inst.InstanceId),
		Name:         NameFromTags(tagsFromEC2(inst.Tags)),
		State:        state,
		InstanceType: string(inst.InstanceType),
		Region:       region,
	}
}

// NameFromTags returns the Name tag value, or models.UnknownName when the tag
// is absent.
func NameFromTags(tags map[string]string) string {
	if name, ok := tags[NameTagKey]; ok {
		return name
	}
	return models.UnknownName
}

// tagsFromEC2 converts EC2 SDK tags to a plain string map.
// Tags with a nil key are dropped; a nil value maps to "".
func tagsFromEC2(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		if t.Key != nil {
			m[*t.Key] = aws.ToString(t.Value)
		}
	}
	return m
}
