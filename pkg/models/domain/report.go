package domain

import "time"

// Report is a console-ready view of one command's output.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Sections    []ReportSection
}

// ReportSection groups key/value summary lines with an optional detail table.
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail is one row of a section's detail table.
type ReportDetail struct {
	Name        string
	Value       string
	Description string
}
