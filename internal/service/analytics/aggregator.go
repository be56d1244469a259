// Package analytics aggregates persisted session records into usage
// statistics for the admin view. It reads only durable state, never the live
// cache.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/garyyong/askgary/internal/core"
	"github.com/garyyong/askgary/pkg/log"
)

// A session counts as completed once the visitor sent this many messages.
const completionThreshold = 5

var (
	hourWindows  = []string{"00-05", "06-11", "12-17", "18-23"}
	messageBands = []string{"1", "2-3", "4-5", "6-10", "11+"}
)

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type OpenerCount struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

type RecentSession struct {
	Key          string    `json:"session"`
	Opener       string    `json:"opening_question"`
	MessageCount int       `json:"message_count"`
	LastActive   time.Time `json:"last_active"`
}

type Report struct {
	TotalSessions  int             `json:"total_sessions"`
	AvgMessages    float64         `json:"avg_messages"`
	CompletionRate float64         `json:"completion_rate"`
	ActivityByHour map[string]int  `json:"activity_by_window"`
	MessageBands   map[string]int  `json:"message_count_bands"`
	TopTopics      []TopicCount    `json:"top_topics"`
	TopOpeners     []OpenerCount   `json:"top_openers"`
	Recent         []RecentSession `json:"recent_sessions"`
}

type Aggregator struct {
	repo core.SessionRepository
	topN int
}

func NewAggregator(repo core.SessionRepository, topN int) *Aggregator {
	return &Aggregator{repo: repo, topN: topN}
}

// Aggregate builds the usage report over every readable durable record.
// Corrupt records were already skipped by the repository.
func (a *Aggregator) Aggregate(ctx context.Context) (Report, error) {
	stored, err := a.repo.ReadAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read sessions: %w", err)
	}

	report := Report{
		ActivityByHour: make(map[string]int, len(hourWindows)),
		MessageBands:   make(map[string]int, len(messageBands)),
	}
	for _, w := range hourWindows {
		report.ActivityByHour[w] = 0
	}
	for _, b := range messageBands {
		report.MessageBands[b] = 0
	}

	topicCounts := make(map[string]int)
	openerCounts := make(map[string]int)

	totalMessages := 0
	withMessages := 0
	completed := 0

	for _, s := range stored {
		userMessages := userTexts(s.Record.History)

		count := s.Record.MessageCount
		if count == 0 {
			count = len(userMessages)
		}

		report.TotalSessions++
		if count >= completionThreshold {
			completed++
		}
		if count >= 1 {
			withMessages++
			totalMessages += count
			report.MessageBands[bandFor(count)]++
		}

		report.ActivityByHour[hourWindows[s.StoredAt.Hour()/6]]++

		opener := ""
		if len(userMessages) > 0 {
			opener = userMessages[0]
			openerCounts[opener]++
		}

		for _, msg := range userMessages {
			for _, tag := range TagMessage(msg) {
				topicCounts[tag]++
			}
		}

		report.Recent = append(report.Recent, RecentSession{
			Key:          s.Key,
			Opener:       opener,
			MessageCount: count,
			LastActive:   s.StoredAt,
		})
	}

	if withMessages > 0 {
		report.AvgMessages = float64(totalMessages) / float64(withMessages)
	}
	if report.TotalSessions > 0 {
		report.CompletionRate = float64(completed) / float64(report.TotalSessions)
	}

	report.TopTopics = topTopics(topicCounts, a.topN)
	report.TopOpeners = topOpeners(openerCounts, a.topN)

	sort.Slice(report.Recent, func(i, j int) bool {
		return report.Recent[i].LastActive.After(report.Recent[j].LastActive)
	})
	if len(report.Recent) > a.topN {
		report.Recent = report.Recent[:a.topN]
	}

	log.FromCtx(ctx).Debug().Int("sessions", report.TotalSessions).Msg("analytics aggregation complete")
	return report, nil
}

func userTexts(history []core.Message) []string {
	var texts []string
	for _, m := range history {
		if m.Role == core.RoleUser {
			texts = append(texts, m.Content)
		}
	}
	return texts
}

func bandFor(count int) string {
	switch {
	case count <= 1:
		return "1"
	case count <= 3:
		return "2-3"
	case count <= 5:
		return "4-5"
	case count <= 10:
		return "6-10"
	default:
		return "11+"
	}
}

func topTopics(counts map[string]int, n int) []TopicCount {
	out := make([]TopicCount, 0, len(counts))
	for topic, count := range counts {
		out = append(out, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topOpeners(counts map[string]int, n int) []OpenerCount {
	out := make([]OpenerCount, 0, len(counts))
	for q, count := range counts {
		out = append(out, OpenerCount{Question: q, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Question < out[j].Question
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
