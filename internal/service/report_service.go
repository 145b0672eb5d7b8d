package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/repository"
)

// GenerateReportRequest holds the generation parameters. Dates are date-only
// strings; the range covers start-of-day through end-of-day inclusive.
type GenerateReportRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// SaveReportRequest updates the editable fields of a stored report. Absent
// fields keep their current value.
type SaveReportRequest struct {
	ID      string  `json:"id"`
	Summary *string `json:"summary"`
	Content *string `json:"content"`
}

// ReportPage is one page of the report listing.
type ReportPage struct {
	Reports    []domain.Report `json:"reports"`
	Pagination Pagination      `json:"pagination"`
}

// ReportService generates, stores and edits period reports.
type ReportService struct {
	reports *repository.ReportRepository
	todos   *repository.TodoRepository
	now     func() time.Time
}

func NewReportService(reports *repository.ReportRepository, todos *repository.TodoRepository) *ReportService {
	return &ReportService{
		reports: reports,
		todos:   todos,
		now:     time.Now,
	}
}

// Generate builds summary and content for the range and persists the report.
func (s *ReportService) Generate(ctx context.Context, userID string, req GenerateReportRequest) (*domain.Report, error) {
	if req.Type == "" || req.StartDate == "" || req.EndDate == "" {
		return nil, validationErr("缺少必要参数")
	}
	reportType := domain.ReportType(req.Type)
	if !reportType.Valid() {
		return nil, validationErr("无效的报告类型")
	}

	startDate, err := parseReportDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseReportDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	// Start of the first day through the last millisecond of the last day.
	rangeStart := startDate
	rangeEnd := endDate.Add(24*time.Hour - time.Millisecond)

	completed, err := s.todos.ListCompletedBetween(ctx, userID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	pending, err := s.todos.ListPendingDueBy(ctx, userID, rangeEnd)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		UserID:    userID,
		Type:      reportType,
		StartDate: startDate,
		EndDate:   endDate,
		Summary:   buildSummary(completed, reportType),
		Content:   buildContent(completed, pending, reportType, startDate, endDate, s.now()),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, userID string, reportType domain.ReportType, page, limit int) (*ReportPage, error) {
	if reportType != "" && !reportType.Valid() {
		reportType = ""
	}
	reports, total, err := s.reports.List(ctx, userID, reportType, page, limit)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return &ReportPage{
		Reports:    reports,
		Pagination: paginate(page, limit, total),
	}, nil
}

func (s *ReportService) Get(ctx context.Context, userID, id string) (*domain.Report, error) {
	report, err := s.reports.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return report, nil
}

// Save overwrites summary/content when provided, preserving absent fields.
func (s *ReportService) Save(ctx context.Context, userID string, req SaveReportRequest) (*domain.Report, error) {
	if req.ID == "" {
		return nil, validationErr("报告ID不能为空")
	}
	report, err := s.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Summary != nil {
		report.Summary = *req.Summary
	}
	if req.Content != nil {
		report.Content = *req.Content
	}
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.reports.Delete(ctx, userID, id)
}

// buildSummary produces the one-paragraph templated summary. The wording is a
// stored artifact; keep the interpolation verbatim.
func buildSummary(completed []domain.Todo, reportType domain.ReportType) string {
	if len(completed) == 0 {
		return fmt.Sprintf("%s无已完成任务。", reportType.Label())
	}

	categoryInfo := ""
	if top := topCategory(completed); top != "" {
		categoryInfo = fmt.Sprintf("主要集中在「%s」分类", top)
	}

	var urgentCount, highCount int
	for _, todo := range completed {
		switch todo.Priority {
		case domain.PriorityUrgent:
			urgentCount++
		case domain.PriorityHigh:
			highCount++
		}
	}
	priorityInfo := ""
	switch {
	case urgentCount > 0:
		priorityInfo = fmt.Sprintf("完成了 %d 项紧急任务和 %d 项高优先级任务", urgentCount, highCount)
	case highCount > 0:
		priorityInfo = fmt.Sprintf("完成了 %d 项高优先级任务", highCount)
	}

	titles := make([]string, 0, 3)
	for _, todo := range completed[:min(3, len(completed))] {
		titles = append(titles, todo.Title)
	}

	return fmt.Sprintf("%s共完成 %d 项任务%s%s。主要成果包括：%s等。",
		reportType.Label(), len(completed), categoryInfo, priorityInfo, strings.Join(titles, "、"))
}

// topCategory picks the category with the most completed todos. Ties break on
// the lexically smaller name so the result is deterministic.
func topCategory(completed []domain.Todo) string {
	counts := make(map[string]int)
	for _, todo := range completed {
		counts[categoryName(&todo)]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// maxPendingInReport caps the pending section; overflow gets a truncation note.
const maxPendingInReport = 10

// buildContent renders the fixed Markdown layout. Every literal here is part
// of the stored report format.
func buildContent(completed, pending []domain.Todo, reportType domain.ReportType, startDate, endDate, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", reportType.Label())
	fmt.Fprintf(&b, "**时间范围**：%s 至 %s\n", formatReportDate(startDate), formatReportDate(endDate))
	fmt.Fprintf(&b, "**生成时间**：%s\n\n", formatReportTimestamp(generatedAt))

	sectionTitle := "已完成任务"
	if reportType == domain.ReportDaily {
		sectionTitle = "今日完成"
	}
	fmt.Fprintf(&b, "## %s\n\n", sectionTitle)

	if len(completed) == 0 {
		b.WriteString("暂无已完成的任务。\n\n")
	} else {
		// Group by category in order of first appearance.
		order := make([]string, 0)
		grouped := make(map[string][]domain.Todo)
		for _, todo := range completed {
			name := categoryName(&todo)
			if _, ok := grouped[name]; !ok {
				order = append(order, name)
			}
			grouped[name] = append(grouped[name], todo)
		}
		for _, name := range order {
			fmt.Fprintf(&b, "### %s\n\n", name)
			for _, todo := range grouped[name] {
				timeStr := ""
				if todo.CompletedAt != nil {
					timeStr = formatReportDate(*todo.CompletedAt)
				}
				fmt.Fprintf(&b, "- ✅ **%s** %s | %s | %s\n",
					todo.Title, descriptionSuffix(todo.Description), todo.Priority.Label(), timeStr)
			}
		}
	}

	if len(pending) > 0 {
		b.WriteString("\n## 待完成任务\n\n")
		for _, todo := range pending[:min(maxPendingInReport, len(pending))] {
			dueStr := "无截止日期"
			if todo.DueDate != nil {
				dueStr = formatReportDate(*todo.DueDate)
			}
			fmt.Fprintf(&b, "- ⏳ **%s** %s | %s | 截止：%s\n",
				todo.Title, descriptionSuffix(todo.Description), todo.Priority.Label(), dueStr)
		}
		if len(pending) > maxPendingInReport {
			fmt.Fprintf(&b, "\n*还有 %d 项待完成任务...*\n", len(pending)-maxPendingInReport)
		}
	}

	b.WriteString("\n## 统计概览\n\n")
	fmt.Fprintf(&b, "- 已完成任务：%d 项\n", len(completed))
	fmt.Fprintf(&b, "- 待完成任务：%d 项\n", len(pending))
	rate := 0
	if total := len(completed) + len(pending); total > 0 {
		rate = int(float64(len(completed))/float64(total)*100 + 0.5)
	}
	fmt.Fprintf(&b, "- 完成率：%d%%\n", rate)

	return b.String()
}

func categoryName(todo *domain.Todo) string {
	if todo.Category != nil {
		return todo.Category.Name
	}
	return UncategorizedName
}

func descriptionSuffix(description string) string {
	if description == "" {
		return ""
	}
	return "- " + description
}

// formatReportDate renders a date the way the report format always has:
// unpadded year/month/day.
func formatReportDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

func formatReportTimestamp(t time.Time) string {
	return fmt.Sprintf("%s %02d:%02d:%02d", formatReportDate(t), t.Hour(), t.Minute(), t.Second())
}

func parseReportDate(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return time.Time{}, validationErr("无效的日期格式")
}
