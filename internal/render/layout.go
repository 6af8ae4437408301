// Package render turns collected inventory and billing data into the report
// document. It is a pure rendering package: no AWS calls, no uploads.
package render

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
)

// Fixed report text.
const (
	ReportTitle      = "AWS EC2 and Billing Report"
	InstancesHeading = "Running Instances:"
	NoInstancesText  = "No instances found"
)

// Section identifies which part of the report a line belongs to.
type Section string

const (
	SectionHeader    Section = "header"
	SectionInstances Section = "instances"
	SectionBilling   Section = "billing"
)

// Document is everything the report shows for one run.
type Document struct {
	Date      string
	AccountID string
	Region    string
	Instances []models.InstanceRecord
	Cost      models.CostSummary
}

// Line is one drawn line of text. Gap is extra vertical space, in points,
// inserted above the line on top of the regular line height.
type Line struct {
	Section Section
	Text    string
	Heading bool
	Indent  bool
	Gap     float64
}

// BuildLayout returns the report's lines in drawing order: header, instance
// listing, billing summary. The instance listing holds one line per record in
// collection order, or the single NoInstancesText line when there are none.
func BuildLayout(doc Document) []Line {
	lines := []Line{
		{Section: SectionHeader, Text: ReportTitle, Heading: true},
		{Section: SectionHeader, Text: "Date: " + doc.Date},
	}
	if doc.AccountID != "" {
		lines = append(lines, Line{
			Section: SectionHeader,
			Text:    fmt.Sprintf("Account: %s  Region: %s", doc.AccountID, doc.Region),
		})
	}

	lines = append(lines, Line{Section: SectionInstances, Text: InstancesHeading, Heading: true, Gap: 10})
	if len(doc.Instances) == 0 {
		lines = append(lines, Line{Section: SectionInstances, Text: NoInstancesText, Indent: true})
	} else {
		lines = append(lines, lo.Map(doc.Instances, func(r models.InstanceRecord, _ int) Line {
			return Line{Section: SectionInstances, Text: InstanceLine(r), Indent: true}
		})...)
	}

	lines = append(lines, Line{Section: SectionBilling, Text: CostLine(doc.Cost), Gap: 20})
	return lines
}

// InstanceLine formats one instance listing entry.
func InstanceLine(r models.InstanceRecord) string {
	fields := []string{r.ID, r.Name, r.State}
	if r.InstanceType != "" {
		fields = append(fields, r.InstanceType)
	}
	return strings.Join(fields, "  ")
}

// CostLine formats the billing summary entry.
func CostLine(c models.CostSummary) string {
	return fmt.Sprintf("Total Cost: %s %s (%s to %s)", c.AmountString(), c.Unit, c.PeriodStart, c.PeriodEnd)
}

// SectionBody returns the text of the non-heading lines in section s.
func SectionBody(lines []Line, s Section) []string {
	return lo.FilterMap(lines, func(l Line, _ int) (string, bool) {
		return l.Text, l.Section == s && !l.Heading
	})
}
