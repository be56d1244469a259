package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyyong/askgary/internal/core"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		count int
		want  Tier
	}{
		{0, TierFirst},
		{1, TierFirst},
		{2, TierEarly},
		{3, TierEarly},
		{4, TierMid},
		{5, TierMid},
		{6, TierMid},
		{7, TierDeep},
		{8, TierDeep},
		{100, TierDeep},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.count), "count=%d", tt.count)
	}
}

func TestTierFor_NoGaps(t *testing.T) {
	// Every non-negative count maps to some tier with a non-empty directive.
	for count := 0; count <= 50; count++ {
		tier := TierFor(count)
		assert.NotEmpty(t, tier.Directive(), "count=%d", count)
		assert.NotEmpty(t, tier.String(), "count=%d", count)
	}
}

func TestBuild_FirstMessageEmptyProfile(t *testing.T) {
	b := NewBuilder(10, 0)
	session := &core.Session{ID: "abc"}

	messages := b.Build(session, 1, "", "who is gary?")
	require.Len(t, messages, 3, "persona, user, metadata instruction")

	assert.Equal(t, core.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "Ask Gary")

	assert.Equal(t, core.RoleUser, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Question: who is gary?")
	assert.NotContains(t, messages[1].Content, "Context about Gary", "no context block when retrieval was empty")
	assert.Contains(t, messages[1].Content, TierFirst.Directive())

	assert.Equal(t, core.RoleSystem, messages[2].Role)
	assert.Contains(t, messages[2].Content, "profile_updates")
	assert.Contains(t, messages[2].Content, "```json")
}

func TestBuild_ProfileNoteInjectedWhenKnown(t *testing.T) {
	b := NewBuilder(10, 0)
	session := &core.Session{
		ID: "abc",
		Profile: core.Profile{
			Name:      "Ana",
			Role:      "recruiter",
			Interests: []string{"ai", "fintech"},
			Context:   "hiring for a Toronto role",
		},
	}

	messages := b.Build(session, 2, "ctx", "hi")
	require.GreaterOrEqual(t, len(messages), 4)

	note := messages[1]
	assert.Equal(t, core.RoleSystem, note.Role)
	assert.Contains(t, note.Content, "Name: Ana")
	assert.Contains(t, note.Content, "Role: recruiter")
	assert.Contains(t, note.Content, "Interests: ai, fintech")
	assert.Contains(t, note.Content, "Context: hiring for a Toronto role")
}

func TestBuild_HistoryWindowTrimmed(t *testing.T) {
	const maxTurns = 2
	b := NewBuilder(maxTurns, 0)

	session := &core.Session{ID: "abc"}
	for i := 0; i < 5; i++ {
		session.History = append(session.History,
			core.Message{Role: core.RoleUser, Content: "q"},
			core.Message{Role: core.RoleAssistant, Content: "a"},
		)
	}

	messages := b.Build(session, 8, "", "next")
	// persona + 2*maxTurns history + user + metadata
	require.Len(t, messages, 1+2*maxTurns+2)

	history := messages[1 : 1+2*maxTurns]
	for i, m := range history {
		if i%2 == 0 {
			assert.Equal(t, core.RoleUser, m.Role)
		} else {
			assert.Equal(t, core.RoleAssistant, m.Role)
		}
	}
}

func TestBuild_ContextBlockAndTierOrdering(t *testing.T) {
	b := NewBuilder(10, 0)
	session := &core.Session{ID: "abc"}

	messages := b.Build(session, 5, "Gary worked at Capco.", "where did gary work?")
	user := messages[len(messages)-2]
	require.Equal(t, core.RoleUser, user.Role)

	ctxPos := strings.Index(user.Content, "Context about Gary:")
	qPos := strings.Index(user.Content, "Question:")
	tierPos := strings.Index(user.Content, TierMid.Directive())
	require.NotEqual(t, -1, ctxPos)
	require.NotEqual(t, -1, qPos)
	require.NotEqual(t, -1, tierPos)
	assert.Less(t, ctxPos, qPos)
	assert.Less(t, qPos, tierPos)
}

func TestTierDirectivesDistinct(t *testing.T) {
	seen := map[string]Tier{}
	for _, tier := range []Tier{TierFirst, TierEarly, TierMid, TierDeep} {
		d := tier.Directive()
		if prev, ok := seen[d]; ok {
			t.Fatalf("tiers %v and %v share a directive", prev, tier)
		}
		seen[d] = tier
	}
}
