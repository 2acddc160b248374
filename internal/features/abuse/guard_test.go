package abuse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/reputation/internal/config"
	"serotonyl.ru/reputation/internal/features/scoring"
)

// guardConfig — конфигурация guard'а с эталонными порогами.
func guardConfig() *config.Config {
	return &config.Config{
		GuardWindow:             time.Hour,
		GuardDuplicateWindow:    30 * time.Minute,
		GuardRetention:          24 * time.Hour,
		GuardRepeatThreshold:    10,
		GuardVelocityMinActions: 20,
		GuardVelocityMeanGap:    5 * time.Second,
		GuardDuplicateThreshold: 3,
		GuardDuplicateScanLimit: 10,
		GuardHourlyActionCap:    50,
		GuardHourlyPointCap:     200,
		GuardDayHourFrom:        6,
		GuardDayHourTo:          23,
		GuardOffHoursMinActions: 10,
	}
}

type fakeHistory struct {
	records []*scoring.ActionRecord
	err     error
}

func (f *fakeHistory) RecentActions(_ context.Context, _ string, _ time.Time) ([]*scoring.ActionRecord, error) {
	return f.records, f.err
}

func record(kind scoring.ActionKind, at time.Time, points int, meta scoring.Metadata) *scoring.ActionRecord {
	return &scoring.ActionRecord{
		ID:        uuid.NewString(),
		UserID:    "u1",
		Kind:      kind,
		Points:    points,
		Metadata:  meta,
		Accepted:  true,
		CreatedAt: at,
	}
}

// noon — «дневное» фиксированное время, чтобы не задевать проверку глухих часов.
var noon = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGuard_CleanAction(t *testing.T) {
	guard := NewGuard(guardConfig(), &fakeHistory{}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionContentCreate, scoring.Metadata{"content_id": "c-1"})
	assert.True(t, a.IsValid)
	assert.Empty(t, a.Issues)
	assert.Zero(t, a.Confidence)
	assert.Equal(t, RiskLow, a.RiskLevel)
	assert.Equal(t, ActionAllow, a.Recommended)
	assert.False(t, a.Blocked())
}

func TestGuard_StructuralFailureShortCircuits(t *testing.T) {
	// История недоступна, но до неё дело дойти не должно
	guard := NewGuard(guardConfig(), &fakeHistory{err: errors.New("db down")}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "", scoring.ActionComment, scoring.Metadata{"content_id": "c-1"})
	require.False(t, a.IsValid)
	assert.Equal(t, 100, a.Confidence)
	assert.Equal(t, RiskHigh, a.RiskLevel)
	assert.Equal(t, ActionBlock, a.Recommended)
	assert.Contains(t, a.Issues[0], "пустой идентификатор")

	a = guard.Evaluate(context.Background(), "u1", scoring.ActionKind("made-up"), nil)
	require.False(t, a.IsValid)
	assert.Equal(t, RiskHigh, a.RiskLevel)
	assert.Contains(t, a.Issues[0], "неизвестный вид")
}

func TestGuard_FailsClosedOnHistoryError(t *testing.T) {
	guard := NewGuard(guardConfig(), &fakeHistory{err: errors.New("connection refused")}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionComment, scoring.Metadata{"content_id": "c-1"})
	require.False(t, a.IsValid)
	assert.Equal(t, RiskCritical, a.RiskLevel)
	assert.Equal(t, ActionBlock, a.Recommended)
	assert.True(t, a.Blocked())
}

func TestGuard_RepetitionFlood(t *testing.T) {
	var records []*scoring.ActionRecord
	for i := 0; i < 10; i++ {
		records = append(records, record(scoring.ActionComment, noon.Add(-time.Duration(i+1)*time.Minute), 10,
			scoring.Metadata{"content_id": fmt.Sprintf("c-%d", i)}))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionComment, scoring.Metadata{"content_id": "c-new"})
	assert.True(t, a.IsValid)
	assert.Equal(t, 30, a.Confidence)
	assert.Equal(t, RiskLow, a.RiskLevel)
	assert.Equal(t, ActionAllow, a.Recommended)
	require.Len(t, a.Issues, 1)
	assert.Contains(t, a.Issues[0], "за последний час")
}

func TestGuard_InhumanVelocity(t *testing.T) {
	// 20 лайков с интервалом 2 секунды: флуд (+30) и скорость (+40)
	base := noon.Add(-5 * time.Minute)
	var records []*scoring.ActionRecord
	for i := 0; i < 20; i++ {
		records = append(records, record(scoring.ActionContentLike, base.Add(time.Duration(i)*2*time.Second), 5,
			scoring.Metadata{"content_id": fmt.Sprintf("c-%d", i), "author_id": "u2"}))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionContentLike,
		scoring.Metadata{"content_id": "c-new", "author_id": "u2"})
	assert.True(t, a.IsValid)
	assert.Equal(t, 70, a.Confidence)
	assert.Equal(t, RiskMedium, a.RiskLevel)
	assert.Equal(t, ActionReview, a.Recommended)

	assert.True(t, hasIssue(a.Issues, "скорость"),
		"должна быть находка о нечеловеческой скорости: %v", a.Issues)
}

func TestGuard_ZeroMeanGapVelocity(t *testing.T) {
	// 20 лайков с ОДИНАКОВЫМ временем: средний интервал ровно ноль —
	// предельный случай скорости, он обязан срабатывать
	at := noon.Add(-5 * time.Minute)
	var records []*scoring.ActionRecord
	for i := 0; i < 20; i++ {
		records = append(records, record(scoring.ActionContentLike, at, 5,
			scoring.Metadata{"content_id": fmt.Sprintf("c-%d", i), "author_id": "u2"}))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionContentLike,
		scoring.Metadata{"content_id": "c-new", "author_id": "u2"})
	assert.Equal(t, 70, a.Confidence, "флуд (+30) и скорость (+40)")
	assert.True(t, hasIssue(a.Issues, "скорость"),
		"нулевой интервал — тоже нечеловеческая скорость: %v", a.Issues)
}

// hasIssue сообщает, есть ли среди находок содержащая подстроку.
func hasIssue(issues []string, sub string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, sub) {
			return true
		}
	}
	return false
}

func TestGuard_DuplicateMetadata(t *testing.T) {
	meta := scoring.Metadata{"content_id": "c-1"}
	var records []*scoring.ActionRecord
	for i := 0; i < 3; i++ {
		records = append(records, record(scoring.ActionComment, noon.Add(-time.Duration(i+1)*5*time.Minute), 10, meta))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionComment, meta)
	assert.True(t, a.IsValid)
	assert.Equal(t, 35, a.Confidence)
	require.Len(t, a.Issues, 1)
	assert.Contains(t, a.Issues[0], "идентичных метаданных")
}

func TestGuard_DuplicatesOutsideWindowIgnored(t *testing.T) {
	meta := scoring.Metadata{"content_id": "c-1"}
	var records []*scoring.ActionRecord
	// Те же метаданные, но старше окна дубликатов (40+ минут назад)
	for i := 0; i < 3; i++ {
		records = append(records, record(scoring.ActionComment, noon.Add(-40*time.Minute).Add(-time.Duration(i)*time.Minute), 10, meta))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionComment, meta)
	assert.True(t, a.IsValid)
	assert.Zero(t, a.Confidence)
	assert.Empty(t, a.Issues)
}

func TestGuard_OffHoursActivity(t *testing.T) {
	night := time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)
	var records []*scoring.ActionRecord
	for i := 0; i < 11; i++ {
		records = append(records, record(scoring.ActionJoinGroup, night.Add(-time.Duration(i+1)*3*time.Minute), 10,
			scoring.Metadata{"group_id": fmt.Sprintf("g-%d", i)}))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(night))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionContentCreate, scoring.Metadata{"content_id": "c-1"})
	assert.True(t, a.IsValid)
	assert.Equal(t, 20, a.Confidence)
	require.Len(t, a.Issues, 1)
	assert.Contains(t, a.Issues[0], "активность")
}

func TestGuard_HourlyActionCap(t *testing.T) {
	// 50 попыток уже в окне — 51-я упирается в жёсткий лимит
	var records []*scoring.ActionRecord
	for i := 0; i < 50; i++ {
		records = append(records, record(scoring.ActionComment, noon.Add(-time.Duration(i+1)*time.Minute), 0,
			scoring.Metadata{"content_id": fmt.Sprintf("c-%d", i)}))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionContentCreate, scoring.Metadata{"content_id": "c-new"})
	require.False(t, a.IsValid)
	assert.GreaterOrEqual(t, int(a.RiskLevel), int(RiskHigh))
	assert.Equal(t, ActionBlock, a.Recommended)
	assert.True(t, a.Blocked())
	assert.True(t, hasIssue(a.Issues, "лимит действий"),
		"должна быть находка о лимите действий: %v", a.Issues)
}

func TestGuard_HourlyPointCap(t *testing.T) {
	var records []*scoring.ActionRecord
	for i := 0; i < 4; i++ {
		records = append(records, record(scoring.ActionProfileComplete, noon.Add(-time.Duration(i+1)*10*time.Minute), 50, nil))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionComment, scoring.Metadata{"content_id": "c-1"})
	require.False(t, a.IsValid)
	assert.Equal(t, RiskHigh, a.RiskLevel)
	assert.Equal(t, ActionBlock, a.Recommended)
	assert.True(t, hasIssue(a.Issues, "лимит баллов"),
		"должна быть находка о лимите баллов: %v", a.Issues)
}

func TestGuard_MetadataShape(t *testing.T) {
	guard := NewGuard(guardConfig(), &fakeHistory{}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionContentLike, scoring.Metadata{"content_id": "c-1"})
	require.False(t, a.IsValid)
	assert.Equal(t, RiskHigh, a.RiskLevel)
	assert.Equal(t, ActionBlock, a.Recommended)
	require.Len(t, a.Issues, 1)
	assert.Contains(t, a.Issues[0], "author_id")
}

func TestGuard_CriticalOnShapeFailureWithHighConfidence(t *testing.T) {
	// Невалидная форма + флуд + скорость + дубликаты = critical
	meta := scoring.Metadata{"content_id": ""}
	base := noon.Add(-5 * time.Minute)
	var records []*scoring.ActionRecord
	for i := 0; i < 20; i++ {
		records = append(records, record(scoring.ActionComment, base.Add(time.Duration(i)*2*time.Second), 0, meta))
	}
	guard := NewGuard(guardConfig(), &fakeHistory{records: records}, clockAt(noon))

	a := guard.Evaluate(context.Background(), "u1", scoring.ActionComment, meta)
	require.False(t, a.IsValid)
	assert.Equal(t, 100, a.Confidence)
	assert.Equal(t, RiskCritical, a.RiskLevel)
	assert.Equal(t, ActionBlock, a.Recommended)
}
