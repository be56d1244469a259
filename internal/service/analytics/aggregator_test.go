package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyyong/askgary/internal/core"
)

type fixedRepo struct {
	sessions []core.StoredSession
	err      error
}

func (r *fixedRepo) Read(ctx context.Context, id string) (core.SessionRecord, error) {
	return core.SessionRecord{}, core.ErrSessionNotFound
}

func (r *fixedRepo) Write(ctx context.Context, id string, rec core.SessionRecord) error {
	return nil
}

func (r *fixedRepo) ReadAll(ctx context.Context) ([]core.StoredSession, error) {
	return r.sessions, r.err
}

func sessionWithCount(key string, count int, storedAt time.Time) core.StoredSession {
	var history []core.Message
	for i := 0; i < count; i++ {
		history = append(history,
			core.Message{Role: core.RoleUser, Content: fmt.Sprintf("question %d from %s", i, key)},
			core.Message{Role: core.RoleAssistant, Content: "answer"},
		)
	}
	return core.StoredSession{
		Key:      key,
		Record:   core.SessionRecord{History: history, MessageCount: count},
		StoredAt: storedAt,
	}
}

func TestTagMessage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"cloud via aws", "does gary know AWS?", []string{"cloud"}},
		{"cloud via docker", "any Docker experience?", []string{"cloud"}},
		{"multi tag", "did he build AI projects at Capco?", []string{"experience", "ai", "projects"}},
		{"no tag", "hmm ok", nil},
		{"case insensitive", "LINKEDIN please", []string{"contact"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagMessage(tt.text))
		})
	}
}

func TestAggregate_CompletionRate(t *testing.T) {
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	counts := []int{1, 2, 3, 4, 5, 5, 6, 8, 11, 1}

	var sessions []core.StoredSession
	for i, c := range counts {
		sessions = append(sessions, sessionWithCount(fmt.Sprintf("s%d", i), c, base.Add(time.Duration(i)*time.Minute)))
	}

	agg := NewAggregator(&fixedRepo{sessions: sessions}, 5)
	report, err := agg.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, report.TotalSessions)
	assert.InDelta(t, 0.5, report.CompletionRate, 1e-9, "counts >=5 are 5,5,6,8,11")
	assert.InDelta(t, 4.6, report.AvgMessages, 1e-9)
}

func TestAggregate_MessageBands(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	counts := []int{1, 2, 3, 4, 5, 6, 10, 11, 25}

	var sessions []core.StoredSession
	for i, c := range counts {
		sessions = append(sessions, sessionWithCount(fmt.Sprintf("s%d", i), c, base))
	}

	report, err := NewAggregator(&fixedRepo{sessions: sessions}, 5).Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.MessageBands["1"])
	assert.Equal(t, 2, report.MessageBands["2-3"])
	assert.Equal(t, 2, report.MessageBands["4-5"])
	assert.Equal(t, 2, report.MessageBands["6-10"])
	assert.Equal(t, 2, report.MessageBands["11+"])
}

func TestAggregate_HourWindows(t *testing.T) {
	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	hours := []int{0, 5, 6, 13, 18, 23}

	var sessions []core.StoredSession
	for i, h := range hours {
		sessions = append(sessions, sessionWithCount(fmt.Sprintf("s%d", i), 1, day.Add(time.Duration(h)*time.Hour)))
	}

	report, err := NewAggregator(&fixedRepo{sessions: sessions}, 5).Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.ActivityByHour["00-05"])
	assert.Equal(t, 1, report.ActivityByHour["06-11"])
	assert.Equal(t, 1, report.ActivityByHour["12-17"])
	assert.Equal(t, 2, report.ActivityByHour["18-23"])
}

func TestAggregate_MessageCountFallback(t *testing.T) {
	// Older records may lack a stored count; fall back to counting user turns.
	s := core.StoredSession{
		Key: "legacy",
		Record: core.SessionRecord{
			History: []core.Message{
				{Role: core.RoleUser, Content: "what does gary do?"},
				{Role: core.RoleAssistant, Content: "consulting!"},
				{Role: core.RoleUser, Content: "where?"},
				{Role: core.RoleAssistant, Content: "toronto"},
			},
		},
		StoredAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	report, err := NewAggregator(&fixedRepo{sessions: []core.StoredSession{s}}, 5).Aggregate(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Recent, 1)
	assert.Equal(t, 2, report.Recent[0].MessageCount)
	assert.Equal(t, "what does gary do?", report.Recent[0].Opener)
	assert.InDelta(t, 2.0, report.AvgMessages, 1e-9)
}

func TestAggregate_RecentOrderingAndLimit(t *testing.T) {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	var sessions []core.StoredSession
	for i := 0; i < 8; i++ {
		sessions = append(sessions, sessionWithCount(fmt.Sprintf("s%d", i), 2, base.Add(time.Duration(i)*time.Hour)))
	}

	report, err := NewAggregator(&fixedRepo{sessions: sessions}, 3).Aggregate(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Recent, 3)
	assert.Equal(t, "s7", report.Recent[0].Key)
	assert.Equal(t, "s6", report.Recent[1].Key)
	assert.Equal(t, "s5", report.Recent[2].Key)
}

func TestAggregate_TopTopicsAndOpeners(t *testing.T) {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	mk := func(key string, questions ...string) core.StoredSession {
		var history []core.Message
		for _, q := range questions {
			history = append(history,
				core.Message{Role: core.RoleUser, Content: q},
				core.Message{Role: core.RoleAssistant, Content: "..."},
			)
		}
		return core.StoredSession{
			Key:      key,
			Record:   core.SessionRecord{History: history, MessageCount: len(questions)},
			StoredAt: base,
		}
	}

	sessions := []core.StoredSession{
		mk("a", "does gary know aws?", "docker too?"),
		mk("b", "does gary know aws?", "tell me about his ai projects"),
		mk("c", "what are his hobbies?"),
	}

	report, err := NewAggregator(&fixedRepo{sessions: sessions}, 2).Aggregate(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, report.TopTopics)
	assert.Equal(t, "cloud", report.TopTopics[0].Topic)
	assert.Equal(t, 3, report.TopTopics[0].Count)

	require.NotEmpty(t, report.TopOpeners)
	assert.Equal(t, "does gary know aws?", report.TopOpeners[0].Question)
	assert.Equal(t, 2, report.TopOpeners[0].Count)
	assert.Len(t, report.TopOpeners, 2)
}

func TestAggregate_EmptyStore(t *testing.T) {
	report, err := NewAggregator(&fixedRepo{}, 5).Aggregate(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.TotalSessions)
	assert.Zero(t, report.AvgMessages)
	assert.Zero(t, report.CompletionRate)
	assert.Empty(t, report.Recent)
}
