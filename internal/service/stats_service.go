package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yuezh/todo-report-backend/internal/repository"
)

// Pseudo-category used when aggregating todos that have no category.
const (
	UncategorizedID    = "uncategorized"
	UncategorizedName  = "未分类"
	UncategorizedColor = "#6B7280"
)

// Overview holds the period-scoped counters.
type Overview struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	Overdue        int64   `json:"overdue"`
	CompletionRate float64 `json:"completionRate"`
}

// OverviewStats is the /stats/overview response.
type OverviewStats struct {
	Overview      Overview         `json:"overview"`
	PriorityStats map[string]int64 `json:"priorityStats"`
}

// CategoryStat is one row of the /stats/categories response.
type CategoryStat struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	CompletionRate float64 `json:"completionRate"`
}

// DailyStat is one created/completed bucket of the trends response.
type DailyStat struct {
	Date      string `json:"date"`
	Created   int64  `json:"created"`
	Completed int64  `json:"completed"`
}

// TrendCategoryStat is the per-category slice of the trends response.
type TrendCategoryStat struct {
	CategoryID     string  `json:"categoryId"`
	CategoryName   string  `json:"categoryName"`
	CategoryColor  string  `json:"categoryColor"`
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
}

// TrendStats is the /stats/trends response.
type TrendStats struct {
	DailyStats     []DailyStat         `json:"dailyStats"`
	PriorityTrends map[string]int64    `json:"priorityTrends"`
	CategoryStats  []TrendCategoryStat `json:"categoryStats"`
}

// StatsService runs the aggregation queries behind the /stats endpoints.
type StatsService struct {
	todos      *repository.TodoRepository
	categories *repository.CategoryRepository
	now        func() time.Time
}

func NewStatsService(todos *repository.TodoRepository, categories *repository.CategoryRepository) *StatsService {
	return &StatsService{
		todos:      todos,
		categories: categories,
		now:        time.Now,
	}
}

// Overview computes the counters for todos created within the period window.
// The overdue count shares that window, so narrowing the period can hide
// overdue items created earlier.
func (s *StatsService) Overview(ctx context.Context, userID, period string) (*OverviewStats, error) {
	since, until := s.periodWindow(period)

	total, err := s.todos.Count(ctx, userID, since, until, nil)
	if err != nil {
		return nil, err
	}
	completedFlag := true
	completed, err := s.todos.Count(ctx, userID, since, until, &completedFlag)
	if err != nil {
		return nil, err
	}
	pendingFlag := false
	pending, err := s.todos.Count(ctx, userID, since, until, &pendingFlag)
	if err != nil {
		return nil, err
	}
	overdue, err := s.todos.CountOverdue(ctx, userID, since, until, s.now())
	if err != nil {
		return nil, err
	}
	priorityCounts, err := s.todos.PriorityCounts(ctx, userID, since, until)
	if err != nil {
		return nil, err
	}

	priorityStats := make(map[string]int64, len(priorityCounts))
	for priority, count := range priorityCounts {
		priorityStats[string(priority)] = count
	}

	return &OverviewStats{
		Overview: Overview{
			Total:          total,
			Completed:      completed,
			Pending:        pending,
			Overdue:        overdue,
			CompletionRate: completionRate(completed, total),
		},
		PriorityStats: priorityStats,
	}, nil
}

// Categories aggregates completion counts per category, newest category
// first, with uncategorized todos appended as a synthetic entry when present.
func (s *StatsService) Categories(ctx context.Context, userID string) ([]CategoryStat, error) {
	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.todos.StatusCountsByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	type pair struct{ total, completed int64 }
	counts := make(map[string]pair)
	var uncategorized pair
	for _, row := range rows {
		if row.CategoryID == nil {
			uncategorized.total += row.Count
			if row.Completed {
				uncategorized.completed += row.Count
			}
			continue
		}
		p := counts[*row.CategoryID]
		p.total += row.Count
		if row.Completed {
			p.completed += row.Count
		}
		counts[*row.CategoryID] = p
	}

	stats := make([]CategoryStat, 0, len(categories)+1)
	for _, category := range categories {
		p := counts[category.ID]
		stats = append(stats, CategoryStat{
			ID:             category.ID,
			Name:           category.Name,
			Color:          category.Color,
			Total:          p.total,
			Completed:      p.completed,
			Pending:        p.total - p.completed,
			CompletionRate: completionRate(p.completed, p.total),
		})
	}

	if uncategorized.total > 0 {
		stats = append(stats, CategoryStat{
			ID:             UncategorizedID,
			Name:           UncategorizedName,
			Color:          UncategorizedColor,
			Total:          uncategorized.total,
			Completed:      uncategorized.completed,
			Pending:        uncategorized.total - uncategorized.completed,
			CompletionRate: completionRate(uncategorized.completed, uncategorized.total),
		})
	}
	return stats, nil
}

// Trends buckets the todos created in the last N days by day, priority and
// category.
func (s *StatsService) Trends(ctx context.Context, userID string, days int) (*TrendStats, error) {
	if days < 1 {
		days = 30
	}
	end := s.now()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	todos, err := s.todos.ListCreatedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	daily := make(map[string]*DailyStat)
	priorityTrends := make(map[string]int64)
	type pair struct{ total, completed int64 }
	byCategory := make(map[string]pair)

	for _, todo := range todos {
		day := todo.CreatedAt.Format("2006-01-02")
		stat, ok := daily[day]
		if !ok {
			stat = &DailyStat{Date: day}
			daily[day] = stat
		}
		stat.Created++
		if todo.Completed {
			stat.Completed++
		}

		state := "pending"
		if todo.Completed {
			state = "completed"
		}
		priorityTrends[fmt.Sprintf("%s_%s", todo.Priority, state)]++

		if todo.CategoryID != nil {
			p := byCategory[*todo.CategoryID]
			p.total++
			if todo.Completed {
				p.completed++
			}
			byCategory[*todo.CategoryID] = p
		}
	}

	dailyStats := make([]DailyStat, 0, len(daily))
	for _, stat := range daily {
		dailyStats = append(dailyStats, *stat)
	}
	sort.Slice(dailyStats, func(i, j int) bool { return dailyStats[i].Date < dailyStats[j].Date })

	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	categoryStats := make([]TrendCategoryStat, 0, len(categories))
	for _, category := range categories {
		p := byCategory[category.ID]
		rate := float64(0)
		if p.total > 0 {
			rate = float64(p.completed) / float64(p.total) * 100
		}
		categoryStats = append(categoryStats, TrendCategoryStat{
			CategoryID:     category.ID,
			CategoryName:   category.Name,
			CategoryColor:  category.Color,
			Total:          p.total,
			Completed:      p.completed,
			CompletionRate: rate,
		})
	}

	return &TrendStats{
		DailyStats:     dailyStats,
		PriorityTrends: priorityTrends,
		CategoryStats:  categoryStats,
	}, nil
}

// periodWindow maps the period keyword onto a created_at window. Unknown
// keywords fall back to no window, same as "all".
func (s *StatsService) periodWindow(period string) (since, until *time.Time) {
	now := s.now()
	switch period {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := start.Add(24 * time.Hour)
		return &start, &end
	case "week":
		start := now.Add(-7 * 24 * time.Hour)
		return &start, nil
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &start, nil
	}
	return nil, nil
}

// completionRate is completed/total*100 rounded to two decimals; exactly 0
// when total is 0.
func completionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}
