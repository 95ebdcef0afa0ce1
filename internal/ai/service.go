package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generator turns a prompt into a response. *Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Kind says which request a reply answers.
type Kind int

const (
	KindChat Kind = iota
	KindFollowUp
	KindSuggestions
)

func (k Kind) String() string {
	switch k {
	case KindChat:
		return "chat"
	case KindFollowUp:
		return "follow-up"
	case KindSuggestions:
		return "suggestions"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	// EmptyCodeSuggestion is the reply to a suggestion request for blank code.
	EmptyCodeSuggestion = "📝 Write some code to get suggestions..."
	// NoSuggestions is rendered for an empty suggestion list.
	NoSuggestions = "✓ No suggestions - your code looks good!"
)

// Reply is the answer to one request, tagged with that request's ID and Kind.
type Reply struct {
	ID          uuid.UUID
	Kind        Kind
	Text        string
	Suggestions []string
	Err         error
}

// Lines renders the reply for display, one entry per line.
func (r Reply) Lines() []string {
	if r.Kind == KindSuggestions {
		switch {
		case r.Err != nil:
			return []string{"❌ " + r.Err.Error()}
		case len(r.Suggestions) == 0:
			return []string{NoSuggestions}
		default:
			return r.Suggestions
		}
	}
	if r.Err != nil {
		return strings.Split("Error: "+r.Err.Error(), "\n")
	}
	return strings.Split(r.Text, "\n")
}

// Render is Lines joined with newlines.
func (r Reply) Render() string {
	return strings.Join(r.Lines(), "\n")
}

// Service issues AI requests without blocking the caller. Each request gets
// its own reply channel, which receives exactly one Reply and is closed.
type Service struct {
	gen Generator
	log *zap.Logger
}

func NewService(gen Generator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, log: log}
}

// SendMessage asks a new question about code. The returned conversation has
// the question recorded; fold the reply in with Conversation.Record.
func (s *Service) SendMessage(ctx context.Context, conv Conversation, text, code string) (Conversation, <-chan Reply) {
	if strings.TrimSpace(text) == "" {
		return conv, s.immediate(Reply{ID: uuid.New(), Kind: KindChat, Err: ErrEmptyPrompt})
	}
	prompt := ChatPrompt(conv, text, code)
	conv.CodeContext = code
	conv = conv.AppendUser(UserLabel, text)
	return conv, s.dispatch(ctx, KindChat, prompt)
}

// SendFollowUp continues the conversation using its last code context.
func (s *Service) SendFollowUp(ctx context.Context, conv Conversation, text string) (Conversation, <-chan Reply) {
	if strings.TrimSpace(text) == "" {
		return conv, s.immediate(Reply{ID: uuid.New(), Kind: KindFollowUp, Err: ErrEmptyPrompt})
	}
	prompt := FollowUpPrompt(conv, text)
	conv = conv.AppendUser(FollowUpLabel, text)
	return conv, s.dispatch(ctx, KindFollowUp, prompt)
}

// RequestSuggestions asks for improvement hints. Blank code is answered
// immediately without contacting the server.
func (s *Service) RequestSuggestions(ctx context.Context, code string) <-chan Reply {
	if strings.TrimSpace(code) == "" {
		return s.immediate(Reply{ID: uuid.New(), Kind: KindSuggestions, Suggestions: []string{EmptyCodeSuggestion}})
	}
	return s.dispatch(ctx, KindSuggestions, SuggestionPrompt(code))
}

func (s *Service) dispatch(ctx context.Context, kind Kind, prompt string) <-chan Reply {
	id := uuid.New()
	log := s.log.With(zap.Stringer("request", id), zap.Stringer("kind", kind))
	log.Info("ai request sent", zap.Int("prompt_len", len(prompt)))

	ch := make(chan Reply, 1)
	go func() {
		defer close(ch)
		text, err := s.gen.Generate(ctx, prompt)
		r := Reply{ID: id, Kind: kind, Text: text, Err: err}
		if err == nil && kind == KindSuggestions {
			r.Suggestions = ParseSuggestions(text)
		}
		if err != nil {
			log.Warn("ai request failed", zap.Error(err))
		} else {
			log.Info("ai reply received", zap.Int("len", len(text)), zap.Int("suggestions", len(r.Suggestions)))
		}
		ch <- r
	}()
	return ch
}

func (s *Service) immediate(r Reply) <-chan Reply {
	ch := make(chan Reply, 1)
	ch <- r
	close(ch)
	return ch
}
