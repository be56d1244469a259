// Package chat orchestrates one conversational turn: session load, retrieval,
// prompt assembly, generation, response parsing, and session update.
package chat

import (
	"context"
	"fmt"

	"github.com/garyyong/askgary/internal/core"
	"github.com/garyyong/askgary/internal/service/prompt"
	"github.com/garyyong/askgary/internal/service/session"
	"github.com/garyyong/askgary/pkg/log"
)

type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, []string, error)
}

type Result struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	FollowUp string   `json:"follow_up,omitempty"`
}

type Service struct {
	sessions        *session.Manager
	retriever       Retriever
	builder         *prompt.Builder
	completer       core.Completer
	temperature     float64
	maxTokens       int
	maxHistoryTurns int
}

func NewService(
	sessions *session.Manager,
	retriever Retriever,
	builder *prompt.Builder,
	completer core.Completer,
	temperature float64,
	maxTokens int,
	maxHistoryTurns int,
) *Service {
	return &Service{
		sessions:        sessions,
		retriever:       retriever,
		builder:         builder,
		completer:       completer,
		temperature:     temperature,
		maxTokens:       maxTokens,
		maxHistoryTurns: maxHistoryTurns,
	}
}

// Handle runs one turn for a session. The whole read-modify-write cycle holds
// the session's lock, so concurrent requests for one visitor serialize. A
// failed provider call leaves the session untouched: either both turns of the
// exchange are recorded, or neither.
func (s *Service) Handle(ctx context.Context, sessionID, message string) (Result, error) {
	logger := log.FromCtx(ctx)

	var res Result
	err := s.sessions.With(ctx, sessionID, func(sess *core.Session) error {
		count := sess.MessageCount + 1

		contextText, sources, err := s.retriever.Retrieve(ctx, message)
		if err != nil {
			return fmt.Errorf("retrieval: %w", err)
		}

		messages := s.builder.Build(sess, count, contextText, message)

		raw, err := s.completer.Complete(ctx, messages, s.temperature, s.maxTokens)
		if err != nil {
			return fmt.Errorf("generation: %w", err)
		}

		answer, followUp, update := ParseResponse(raw)

		sess.MessageCount = count
		s.appendExchange(sess, message, answer)
		if update != nil {
			sess.Profile.Apply(*update)
		}

		logger.Debug().
			Str("session", sessionID).
			Int("count", count).
			Str("tier", prompt.TierFor(count).String()).
			Int("sources", len(sources)).
			Msg("chat turn complete")

		res = Result{Answer: answer, Sources: sources, FollowUp: followUp}
		return nil
	})
	return res, err
}

func (s *Service) appendExchange(sess *core.Session, userText, assistantText string) {
	sess.History = append(sess.History,
		core.Message{Role: core.RoleUser, Content: userText},
		core.Message{Role: core.RoleAssistant, Content: assistantText},
	)
	if max := 2 * s.maxHistoryTurns; len(sess.History) > max {
		sess.History = sess.History[len(sess.History)-max:]
	}
}
