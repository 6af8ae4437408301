package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
)

// ── stubs ────────────────────────────────────────────────────────────────────

// stubEC2 returns pages[i] for the i-th call, chaining NextToken so the SDK
// paginator walks every page.
type stubEC2 struct {
	pages []ec2svc.DescribeInstancesOutput
	err   error
	calls int
}

func (s *stubEC2) DescribeInstances(_ context.Context, _ *ec2svc.DescribeInstancesInput, _ ...func(*ec2svc.Options)) (*ec2svc.DescribeInstancesOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := s.pages[s.calls]
	s.calls++
	if s.calls < len(s.pages) {
		out.NextToken = aws.String("next")
	}
	return &out, nil
}

func instance(id string, state ec2types.InstanceStateName, tags ...ec2types.Tag) ec2types.Instance {
	return ec2types.Instance{
		InstanceId:   aws.String(id),
		InstanceType: ec2types.InstanceTypeT3Micro,
		State:        &ec2types.InstanceState{Name: state},
		Tags:         tags,
	}
}

func tag(k, v string) ec2types.Tag {
	return ec2types.Tag{Key: aws.String(k), Value: aws.String(v)}
}

// ── collectInstances ─────────────────────────────────────────────────────────

func TestCollectInstances_NameTagAndPlaceholder(t *testing.T) {
	client := &stubEC2{pages: []ec2svc.DescribeInstancesOutput{{
		Reservations: []ec2types.Reservation{{
			Instances: []ec2types.Instance{
				instance("i-tagged", ec2types.InstanceStateNameRunning, tag("Env", "prod"), tag("Name", "web-1")),
				instance("i-untagged", ec2types.InstanceStateNameStopped),
				instance("i-othertags", ec2types.InstanceStateNameRunning, tag("Owner", "ops")),
			},
		}},
	}}}

	got, err := NewDefaultCollector().CollectInstances(context.Background(), client, "eu-west-1")
	if err != nil {
		t.Fatalf("CollectInstances: %v", err)
	}

	want := []models.InstanceRecord{
		{ID: "i-tagged", Name: "web-1", State: "running", InstanceType: "t3.micro", Region: "eu-west-1"},
		{ID: "i-untagged", Name: "unknown", State: "stopped", InstanceType: "t3.micro", Region: "eu-west-1"},
		{ID: "i-othertags", Name: "unknown", State: "running", InstanceType: "t3.micro", Region: "eu-west-1"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func TestCollectInstances_PreservesOrderAcrossReservationsAndPages(t *testing.T) {
	client := &stubEC2{pages: []ec2svc.DescribeInstancesOutput{
		{Reservations: []ec2types.Reservation{
			{Instances: []ec2types.Instance{instance("i-1", "running"), instance("i-2", "running")}},
			{Instances: []ec2types.Instance{instance("i-3", "pending")}},
		}},
		{Reservations: []ec2types.Reservation{
			{Instances: []ec2types.Instance{instance("i-4", "terminated")}},
		}},
	}}

	got, err := collectInstances(context.Background(), client, "us-east-1")
	if err != nil {
		t.Fatalf("collectInstances: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("DescribeInstances calls = %d; want 2", client.calls)
	}

	wantIDs := []string{"i-1", "i-2", "i-3", "i-4"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d records; want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("record %d ID = %q; want %q", i, got[i].ID, id)
		}
	}
	if got[3].State != "terminated" {
		t.Errorf("State = %q; want terminated (no state filter)", got[3].State)
	}
}

func TestCollectInstances_Empty(t *testing.T) {
	client := &stubEC2{pages: []ec2svc.DescribeInstancesOutput{{}}}

	got, err := collectInstances(context.Background(), client, "us-east-1")
	if err != nil {
		t.Fatalf("collectInstances: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v; want empty non-nil slice", got)
	}
}

func TestCollectInstances_ErrorPropagates(t *testing.T) {
	authErr := errors.New("UnauthorizedOperation")
	client := &stubEC2{err: authErr}

	_, err := collectInstances(context.Background(), client, "us-east-1")
	if !errors.Is(err, authErr) {
		t.Fatalf("err = %v; want wrapped %v", err, authErr)
	}
}

// ── NameFromTags / tagsFromEC2 ───────────────────────────────────────────────

func TestNameFromTags(t *testing.T) {
	cases := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"nil map", nil, models.UnknownName},
		{"no Name key", map[string]string{"Env": "prod"}, models.UnknownName},
		{"lowercase key is not Name", map[string]string{"name": "x"}, models.UnknownName},
		{"Name present", map[string]string{"Name": "db-primary"}, "db-primary"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NameFromTags(tc.tags); got != tc.want {
				t.Errorf("NameFromTags = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestTagsFromEC2_SkipsNilKeys(t *testing.T) {
	got := tagsFromEC2([]ec2types.Tag{
		{Key: nil, Value: aws.String("orphan")},
		{Key: aws.String("Name"), Value: nil},
		tag("Env", "dev"),
	})
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2 (%v)", len(got), got)
	}
	if v, ok := got["Name"]; !ok || v != "" {
		t.Errorf("Name = %q, %v; want empty value present", v, ok)
	}
	if got["Env"] != "dev" {
		t.Errorf("Env = %q; want dev", got["Env"])
	}
}

func TestToInstanceRecord_NilState(t *testing.T) {
	rec := toInstanceRecord(ec2types.Instance{InstanceId: aws.String("i-x")}, "us-east-1")
	if rec.State != "" {
		t.Errorf("State = %q; want empty", rec.State)
	}
	if rec.Name != models.UnknownName {
		t.Errorf("Name = %q; want placeholder", rec.Name)
	}
}
