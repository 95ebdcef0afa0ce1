package ai

import (
	"errors"
	"fmt"
)

// ErrEmptyPrompt is reported for a chat or follow-up with no text.
var ErrEmptyPrompt = errors.New("empty prompt")

// TransportError is a failed exchange with the AI endpoint: the request could
// not be delivered, or the server answered with a non-2xx status.
type TransportError struct {
	Endpoint string
	Model    string
	// Refused is set when nothing is listening at Endpoint.
	Refused bool
	Status  int
	Body    string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Refused:
		return refusedHint(e.Model)
	case e.Status != 0:
		return fmt.Sprintf("AI service at %s returned status %d: %s", e.Endpoint, e.Status, e.Body)
	default:
		return fmt.Sprintf("AI request to %s failed: %v", e.Endpoint, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError means a 2xx body was not a generate response.
type MalformedResponseError struct {
	Body string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response from AI service: %v", e.Err)
	}
	return "invalid response from AI service"
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func refusedHint(model string) string {
	if model == "" {
		model = DefaultModel
	}
	return "Cannot connect to local AI (Ollama). Please make sure Ollama is running.\n\n" +
		"To start Ollama:\n" +
		"1. Install Ollama from https://ollama.ai\n" +
		"2. Run: ollama pull " + model + "\n" +
		"3. Ollama runs automatically in the background"
}
