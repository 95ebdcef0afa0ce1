package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type recorder struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (r *recorder) Generate(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	r.prompts = append(r.prompts, prompt)
	r.mu.Unlock()
	return r.reply(prompt)
}

func (r *recorder) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

func echo(text string) *recorder {
	return &recorder{reply: func(string) (string, error) { return text, nil }}
}

func TestSendMessage_PromptAndTranscript(t *testing.T) {
	rec := echo("Looks fine.")
	svc := NewService(rec, nil)

	conv, ch := svc.SendMessage(context.Background(), Conversation{}, "is this ok?", "int main(){}")
	assert.Equal(t, "User: is this ok?\n", conv.Transcript)
	assert.Equal(t, "int main(){}", conv.CodeContext)

	r := <-ch
	require.NoError(t, r.Err)
	assert.Equal(t, KindChat, r.Kind)
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, "Looks fine.", r.Text)

	conv = conv.Record(r)
	assert.Equal(t, "User: is this ok?\nAssistant: Looks fine.\n", conv.Transcript)

	want := SystemPrompt + "\n\n" +
		"Current code in editor:\n```cpp\nint main(){}\n```\n\n" +
		"User question: is this ok?"
	assert.Equal(t, []string{want}, rec.Prompts())
}

func TestSendMessage_IncludesPreviousConversation(t *testing.T) {
	rec := echo("ok")
	svc := NewService(rec, nil)
	conv := Conversation{}.AppendUser(UserLabel, "hi").AppendAssistant("hello")

	_, ch := svc.SendMessage(context.Background(), conv, "again", "")
	<-ch

	p := rec.Prompts()[0]
	assert.Contains(t, p, "Previous conversation:\nUser: hi\nAssistant: hello\n\n\n")
	assert.NotContains(t, p, "Current code in editor:")
	assert.True(t, strings.HasSuffix(p, "User question: again"))
}

func TestSendFollowUp_UsesLastCodeContext(t *testing.T) {
	rec := echo("because")
	svc := NewService(rec, nil)

	conv, ch := svc.SendMessage(context.Background(), Conversation{}, "what?", "int x;")
	conv = conv.Record(<-ch)

	conv, ch = svc.SendFollowUp(context.Background(), conv, "why?")
	r := <-ch
	assert.Equal(t, KindFollowUp, r.Kind)
	conv = conv.Record(r)
	assert.Equal(t, "User: what?\nAssistant: because\nUser (follow-up): why?\nAssistant: because\n", conv.Transcript)

	p := rec.Prompts()[1]
	assert.Contains(t, p, "Conversation history:\nUser: what?\nAssistant: because\n\n\n")
	assert.Contains(t, p, "Current code:\n```cpp\nint x;\n```\n\n")
	assert.True(t, strings.HasSuffix(p, "Follow-up question: why?"))
}

func TestFollowUpPrompt_EmptyHistoryStillHasSection(t *testing.T) {
	p := FollowUpPrompt(Conversation{}, "q")
	assert.Equal(t, SystemPrompt+"\n\nConversation history:\n\n\nFollow-up question: q", p)
}

func TestSend_EmptyTextRejected(t *testing.T) {
	rec := echo("x")
	svc := NewService(rec, nil)
	conv := Conversation{Transcript: "User: a\n"}

	got, ch := svc.SendMessage(context.Background(), conv, "  ", "code")
	r := <-ch
	assert.ErrorIs(t, r.Err, ErrEmptyPrompt)
	assert.Equal(t, conv, got)

	got, ch = svc.SendFollowUp(context.Background(), conv, "")
	r = <-ch
	assert.ErrorIs(t, r.Err, ErrEmptyPrompt)
	assert.Equal(t, KindFollowUp, r.Kind)
	assert.Equal(t, conv, got)
	assert.Empty(t, rec.Prompts())
}

func TestRequestSuggestions(t *testing.T) {
	rec := echo("Here you go:\n🐛 off-by-one in loop\n\n  ⚡ reserve the vector\nthanks")
	svc := NewService(rec, nil)

	r := <-svc.RequestSuggestions(context.Background(), "for(;;){}")
	require.NoError(t, r.Err)
	assert.Equal(t, KindSuggestions, r.Kind)
	assert.Equal(t, []string{"🐛 off-by-one in loop", "⚡ reserve the vector"}, r.Suggestions)
	assert.Contains(t, rec.Prompts()[0], "```cpp\nfor(;;){}\n```")
}

func TestRequestSuggestions_EmptyCodeSkipsRequest(t *testing.T) {
	rec := echo("unused")
	svc := NewService(rec, nil)

	r := <-svc.RequestSuggestions(context.Background(), " \n\t")
	assert.Equal(t, []string{EmptyCodeSuggestion}, r.Suggestions)
	assert.Empty(t, rec.Prompts())
}

func TestReplyRendering(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name  string
		reply Reply
		want  string
	}{
		{"chat text", Reply{Kind: KindChat, Text: "a\nb"}, "a\nb"},
		{"chat error", Reply{Kind: KindChat, Err: boom}, "Error: boom"},
		{"follow-up error", Reply{Kind: KindFollowUp, Err: boom}, "Error: boom"},
		{"suggestion error", Reply{Kind: KindSuggestions, Err: boom}, "❌ boom"},
		{"no suggestions", Reply{Kind: KindSuggestions}, NoSuggestions},
		{"suggestions", Reply{Kind: KindSuggestions, Suggestions: []string{"🐛 a", "✨ b"}}, "🐛 a\n✨ b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.reply.Render())
		})
	}
}

func TestReplyRendering_RefusedSuggestionIsOneEntry(t *testing.T) {
	r := Reply{Kind: KindSuggestions, Err: &TransportError{Refused: true, Model: "codellama"}}
	lines := r.Lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "❌ Cannot connect to local AI (Ollama)."))
}

func TestRecord_IgnoresFailuresAndSuggestions(t *testing.T) {
	conv := Conversation{}.AppendUser(UserLabel, "q")
	assert.Equal(t, conv, conv.Record(Reply{Kind: KindChat, Err: errors.New("x")}))
	assert.Equal(t, conv, conv.Record(Reply{Kind: KindSuggestions, Text: "🐛 a"}))
}

func TestRepliesAreRoutedByKind(t *testing.T) {
	// A suggestion request and a chat request in flight together: each reply
	// carries the kind it was sent with, whatever order they finish in.
	release := make(chan struct{})
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Analyze") {
			<-release
			return "🔒 check bounds", nil
		}
		return "chat answer", nil
	})
	svc := NewService(gen, nil)

	sugg := svc.RequestSuggestions(context.Background(), "int a[2]; a[5]=1;")
	conv, chat := svc.SendMessage(context.Background(), Conversation{}, "hi", "")

	c := <-chat
	close(release)
	s := <-sugg

	assert.Equal(t, KindChat, c.Kind)
	assert.Equal(t, KindSuggestions, s.Kind)
	assert.NotEqual(t, c.ID, s.ID)
	assert.Equal(t, []string{"🔒 check bounds"}, s.Suggestions)

	conv = conv.Record(s).Record(c)
	assert.Equal(t, "User: hi\nAssistant: chat answer\n", conv.Transcript)
}

func TestConversation_Clear(t *testing.T) {
	conv := Conversation{CodeContext: "x"}.AppendUser(UserLabel, "a")
	assert.Equal(t, Conversation{}, conv.Clear())
}

func TestConversation_TruncatesToLimit(t *testing.T) {
	long := strings.Repeat("é", TranscriptLimit)
	conv := Conversation{}.AppendUser(UserLabel, long).AppendAssistant("done")
	assert.Equal(t, TranscriptLimit, utf8.RuneCountInString(conv.Transcript))
	assert.True(t, strings.HasSuffix(conv.Transcript, "Assistant: done\n"))
}

func TestConversation_TranscriptBoundProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		conv := Conversation{}
		var full strings.Builder
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			text := rapid.StringN(0, 300, -1).Draw(t, "text")
			if rapid.Bool().Draw(t, "assistant") {
				conv = conv.AppendAssistant(text)
				full.WriteString(AssistantLabel + ": " + text + "\n")
			} else {
				conv = conv.AppendUser(UserLabel, text)
				full.WriteString(UserLabel + ": " + text + "\n")
			}
			if n := utf8.RuneCountInString(conv.Transcript); n > TranscriptLimit {
				t.Fatalf("transcript has %d runes", n)
			}
			if !strings.HasSuffix(full.String(), conv.Transcript) {
				t.Fatalf("transcript is not a suffix of the full history")
			}
		}
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "follow-up", KindFollowUp.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
