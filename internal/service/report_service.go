package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/rs/zerolog"
)

// operationsFeedLimit caps the merged activity feed.
const operationsFeedLimit = 100

// reportRowLimit caps each section of an export.
const reportRowLimit = 10000

// reportService implements ReportService.
type reportService struct {
	accountRepo repository.AccountRepository
	mealRepo    repository.MealRepository
	userRepo    repository.UserRepository
	logger      zerolog.Logger
}

// NewReportService creates a new report service.
func NewReportService(
	accountRepo repository.AccountRepository,
	mealRepo repository.MealRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		accountRepo: accountRepo,
		mealRepo:    mealRepo,
		userRepo:    userRepo,
		logger:      logger.With().Str("service", "report").Logger(),
	}
}

// Stats returns the dashboard summary.
func (s *reportService) Stats(ctx context.Context) (*model.AdminStats, error) {
	total, err := s.accountRepo.TotalPayments(ctx)
	if err != nil {
		return nil, err
	}

	attendance, err := s.mealRepo.CountDistinctStudents(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	students, err := s.userRepo.CountByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	return &model.AdminStats{
		TotalPayments:   total,
		TodayAttendance: attendance,
		TotalStudents:   students,
	}, nil
}

// Operations merges recent payments and meal records into one feed, newest
// first.
func (s *reportService) Operations(ctx context.Context) ([]model.Operation, error) {
	payments, err := s.accountRepo.PaymentsSince(ctx, nil, operationsFeedLimit)
	if err != nil {
		return nil, err
	}
	meals, err := s.mealRepo.MealsSince(ctx, nil, operationsFeedLimit)
	if err != nil {
		return nil, err
	}

	ops := make([]model.Operation, 0, len(payments)+len(meals))
	for _, p := range payments {
		ops = append(ops, model.Operation{
			Type:   "payment",
			Detail: fmt.Sprintf("%.2f (%s)", p.Amount, p.PaymentType),
			User:   p.StudentName,
			Date:   p.CreatedAt,
		})
	}
	for _, m := range meals {
		ops = append(ops, model.Operation{
			Type:   "meal",
			Detail: m.MealType,
			User:   m.StudentName,
			Date:   m.TakenAt,
		})
	}

	sort.Slice(ops, func(i, j int) bool { return ops[i].Date.After(ops[j].Date) })
	if len(ops) > operationsFeedLimit {
		ops = ops[:operationsFeedLimit]
	}

	return ops, nil
}

// Export renders the activity report for the period as a semicolon-delimited
// CSV with a UTF-8 BOM, payments first and meal records after.
func (s *reportService) Export(ctx context.Context, period string) (*model.ReportFile, error) {
	since, err := periodStart(period)
	if err != nil {
		return nil, err
	}

	payments, err := s.accountRepo.PaymentsSince(ctx, since, reportRowLimit)
	if err != nil {
		return nil, err
	}
	meals, err := s.mealRepo.MealsSince(ctx, since, reportRowLimit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	generated := now.Format("2006-01-02 15:04")

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	writeReportRow(&buf,
		"Record type", "Period", "Generated at",
		"Student ID", "Student name", "Amount / Meal type", "Category", "Operation date")

	for _, p := range payments {
		writeReportRow(&buf,
			"payment", period, generated,
			p.StudentID, p.StudentName,
			fmt.Sprintf("%.2f", p.Amount), p.PaymentType,
			p.CreatedAt.Format("2006-01-02 15:04"))
	}
	for _, m := range meals {
		writeReportRow(&buf,
			"meal", period, generated,
			m.StudentID, m.StudentName,
			m.MealType, m.MealDate.Format("2006-01-02"),
			m.TakenAt.Format("2006-01-02 15:04"))
	}

	s.logger.Info().
		Str("period", period).
		Int("payments", len(payments)).
		Int("meals", len(meals)).
		Msg("report exported")

	return &model.ReportFile{
		Filename:    fmt.Sprintf("canteen_report_%s_%s.csv", period, now.Format("2006-01-02")),
		ContentType: "text/csv; charset=utf-8",
		Content:     buf.Bytes(),
	}, nil
}

// ListUsers lists student and cook accounts.
func (s *reportService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListByRoles(ctx, []string{model.RoleStudent, model.RoleCook})
}

// periodStart maps a report period to its lower time bound. A nil result
// means all time.
func periodStart(period string) (*time.Time, error) {
	switch period {
	case model.PeriodWeek:
		since := time.Now().AddDate(0, 0, -7)
		return &since, nil
	case model.PeriodMonth:
		since := time.Now().AddDate(0, 0, -30)
		return &since, nil
	case model.PeriodAll:
		return nil, nil
	default:
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Period must be week, month or all")
	}
}

// writeReportRow appends one semicolon-delimited row, quoting fields that
// contain the delimiter, quotes or line breaks.
func writeReportRow(buf *bytes.Buffer, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(';')
		}
		if strings.ContainsAny(field, ";\"\n\r") {
			field = "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
		}
		buf.WriteString(field)
	}
	buf.WriteByte('\n')
}
