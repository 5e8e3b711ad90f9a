package models

import "time"

// AnalysisStatus is the lifecycle state of an analysis task.
type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "pending"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// AnalysisTask is the unit of work flowing through the queue.
type AnalysisTask struct {
	ID        string         `json:"id"`
	TenderURL string         `json:"tenderUrl,omitempty"`
	RegNumber string         `json:"regNumber,omitempty"`
	Platform  string         `json:"platform,omitempty"`
	Status    AnalysisStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ReportSource records one document's contribution to a report.
type ReportSource struct {
	Filename       string `json:"filename"`
	Length         int    `json:"length"`
	OriginalLength int    `json:"originalLength"`
}

// AnalysisReport is the stored outcome of a completed task.
type AnalysisReport struct {
	TaskID     string         `json:"taskId"`
	RegNumber  string         `json:"regNumber"`
	TenderName string         `json:"tenderName"`
	Analysis   string         `json:"analysis"`
	Sources    []ReportSource `json:"sources,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
