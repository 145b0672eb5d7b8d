package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportType selects the display label of a generated report.
type ReportType string

const (
	ReportDaily     ReportType = "DAILY"
	ReportWeekly    ReportType = "WEEKLY"
	ReportMonthly   ReportType = "MONTHLY"
	ReportQuarterly ReportType = "QUARTERLY"
	ReportYearly    ReportType = "YEARLY"
)

// Valid reports whether t is one of the five known report types.
func (t ReportType) Valid() bool {
	switch t {
	case ReportDaily, ReportWeekly, ReportMonthly, ReportQuarterly, ReportYearly:
		return true
	}
	return false
}

// Label returns the display name used in report titles and summaries.
// These strings are part of stored report text; keep them verbatim.
func (t ReportType) Label() string {
	switch t {
	case ReportDaily:
		return "日报"
	case ReportWeekly:
		return "周报"
	case ReportMonthly:
		return "月报"
	case ReportQuarterly:
		return "季度报告"
	case ReportYearly:
		return "年度报告"
	}
	return "报告"
}

// Report is a generated period summary. Summary and Content are produced by
// the generator and stay editable through the save endpoint.
type Report struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"size:36;index;not null" json:"userId"`
	Type      ReportType `gorm:"size:10;not null" json:"type"`
	StartDate time.Time  `gorm:"not null" json:"startDate"`
	EndDate   time.Time  `gorm:"not null" json:"endDate"`
	Summary   string     `json:"summary"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
