// Package prompt assembles the message sequence for the generation call:
// persona, visitor profile note, trimmed history, the retrieved context with
// the question and an engagement directive, and the metadata-block
// instruction.
package prompt

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/garyyong/askgary/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

type Builder struct {
	maxHistoryTurns    int
	contextTokenBudget int
}

func NewBuilder(maxHistoryTurns, contextTokenBudget int) *Builder {
	return &Builder{
		maxHistoryTurns:    maxHistoryTurns,
		contextTokenBudget: contextTokenBudget,
	}
}

// Build produces the ordered message sequence for one turn. messageCount is
// the count including the current message.
func (b *Builder) Build(session *core.Session, messageCount int, retrievedContext, rawMessage string) []core.Message {
	messages := make([]core.Message, 0, 2*b.maxHistoryTurns+4)

	messages = append(messages, core.Message{Role: core.RoleSystem, Content: personaPrompt})

	if !session.Profile.IsEmpty() {
		messages = append(messages, core.Message{
			Role:    core.RoleSystem,
			Content: profileNote(session.Profile),
		})
	}

	history := session.History
	if window := 2 * b.maxHistoryTurns; len(history) > window {
		history = history[len(history)-window:]
	}
	messages = append(messages, history...)

	messages = append(messages, core.Message{
		Role:    core.RoleUser,
		Content: b.userContent(retrievedContext, rawMessage, messageCount),
	})

	messages = append(messages, core.Message{Role: core.RoleSystem, Content: metadataInstruction})

	return messages
}

func (b *Builder) userContent(retrievedContext, rawMessage string, messageCount int) string {
	var sb strings.Builder
	if ctx := b.trimToBudget(retrievedContext); ctx != "" {
		sb.WriteString("Context about Gary:\n")
		sb.WriteString(ctx)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(rawMessage)
	sb.WriteString("\n\n")
	sb.WriteString(TierFor(messageCount).Directive())
	return sb.String()
}

func profileNote(p core.Profile) string {
	var parts []string
	if p.Name != "" {
		parts = append(parts, "Name: "+p.Name)
	}
	if p.Role != "" {
		parts = append(parts, "Role: "+p.Role)
	}
	if len(p.Interests) > 0 {
		parts = append(parts, "Interests: "+strings.Join(p.Interests, ", "))
	}
	if p.Context != "" {
		parts = append(parts, "Context: "+p.Context)
	}
	return fmt.Sprintf("What you know about this visitor so far: %s. Use it naturally, don't recite it.", strings.Join(parts, "; "))
}

// trimToBudget caps the retrieved context to the token budget, cutting at
// token boundaries.
func (b *Builder) trimToBudget(text string) string {
	if text == "" || b.contextTokenBudget <= 0 {
		return text
	}
	tokens := tokenizer().Encode(text, nil, nil)
	if len(tokens) <= b.contextTokenBudget {
		return text
	}
	return tokenizer().Decode(tokens[:b.contextTokenBudget])
}

func tokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}
