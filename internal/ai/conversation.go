package ai

import "unicode/utf8"

// TranscriptLimit bounds the transcript, counted in characters (runes).
const TranscriptLimit = 2000

// Transcript line labels.
const (
	UserLabel      = "User"
	FollowUpLabel  = "User (follow-up)"
	AssistantLabel = "Assistant"
)

// Conversation is the running chat state. It is a plain value: every
// method returns the updated copy and leaves the receiver untouched.
type Conversation struct {
	// Transcript holds labelled exchanges, oldest first.
	Transcript string
	// CodeContext is the code sent with the last chat message, reused by
	// follow-ups.
	CodeContext string
}

// AppendUser adds a "<label>: <text>" line.
func (c Conversation) AppendUser(label, text string) Conversation {
	c.Transcript = truncateTranscript(c.Transcript + label + ": " + text + "\n")
	return c
}

// AppendAssistant adds an "Assistant: <text>" line.
func (c Conversation) AppendAssistant(text string) Conversation {
	return c.AppendUser(AssistantLabel, text)
}

// Clear drops the transcript and the code context.
func (c Conversation) Clear() Conversation {
	return Conversation{}
}

// Record folds a successful chat or follow-up reply into the transcript.
// Suggestion replies and failed replies leave it unchanged.
func (c Conversation) Record(r Reply) Conversation {
	if r.Err != nil || r.Kind == KindSuggestions {
		return c
	}
	return c.AppendAssistant(r.Text)
}

func truncateTranscript(s string) string {
	if utf8.RuneCountInString(s) <= TranscriptLimit {
		return s
	}
	r := []rune(s)
	return string(r[len(r)-TranscriptLimit:])
}
