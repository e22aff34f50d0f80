package model

import "time"

// Report periods.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// ReportFile is a rendered export ready to be served as a download.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Operation is one row of the merged payments/meals activity feed.
type Operation struct {
	Type   string    `json:"type"`
	Detail string    `json:"detail"`
	User   string    `json:"user"`
	Date   time.Time `json:"date"`
}

// AdminStats is the dashboard summary.
type AdminStats struct {
	TotalPayments   float64 `json:"totalPayments"`
	TodayAttendance int     `json:"todayAttendance"`
	TotalStudents   int     `json:"totalStudents"`
}

// PaymentReportRow is a payment joined with the student's name for exports.
type PaymentReportRow struct {
	StudentID   string
	StudentName string
	Amount      float64
	PaymentType string
	CreatedAt   time.Time
}

// MealReportRow is a meal record joined with the student's name and the menu
// date for exports.
type MealReportRow struct {
	StudentID   string
	StudentName string
	MealType    string
	MealDate    time.Time
	TakenAt     time.Time
}
