package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"
)

// recordingLogger captures every SQL statement gorm builds so tests can
// assert on the generated queries without a database.
type recordingLogger struct {
	queries []string
}

func (l *recordingLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *recordingLogger) Info(context.Context, string, ...interface{}) {}

func (l *recordingLogger) Warn(context.Context, string, ...interface{}) {}

func (l *recordingLogger) Error(context.Context, string, ...interface{}) {}

func (l *recordingLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	l.queries = append(l.queries, sql)
}

func dryRunAnalytics(t *testing.T) (*AnalyticsService, *recordingLogger) {
	t.Helper()
	rec := &recordingLogger{}
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		DryRun: true,
		Logger: rec,
	})
	if err != nil {
		t.Fatalf("open dry-run gorm: %v", err)
	}
	return NewAnalyticsService(db), rec
}

func TestItemScoreBreakdownBuildsDistinctQueries(t *testing.T) {
	svc, rec := dryRunAnalytics(t)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if _, _, _, err := svc.itemScoreBreakdown(context.Background(), 1, from, to); err != nil {
		t.Fatalf("itemScoreBreakdown: %v", err)
	}
	if len(rec.queries) != 3 {
		t.Fatalf("expected 3 queries, got %d: %v", len(rec.queries), rec.queries)
	}

	total, unsafe, avgScore := rec.queries[0], rec.queries[1], rec.queries[2]

	if !strings.Contains(total, "count(*)") {
		t.Errorf("total query is not a count: %s", total)
	}
	if strings.Contains(total, "safe") || strings.Contains(total, "score") {
		t.Errorf("total query must not carry the later filters: %s", total)
	}
	if !strings.Contains(unsafe, "meal_items.safe") {
		t.Errorf("unsafe count lost its safe filter: %s", unsafe)
	}
	if !strings.Contains(avgScore, "AVG(meal_items.score)") || !strings.Contains(avgScore, "meal_items.score > 0") {
		t.Errorf("average query lost its select or score filter: %s", avgScore)
	}
	if unsafe == total || avgScore == total {
		t.Errorf("finishers re-executed the first statement:\n%s\n%s\n%s", total, unsafe, avgScore)
	}

	for i, q := range rec.queries {
		if !strings.Contains(q, "meals.user_id") || !strings.Contains(q, "JOIN meals") {
			t.Errorf("query %d lost the shared scope: %s", i, q)
		}
	}
}
