package editor

import (
	"strings"

	"go.uber.org/zap"

	"aiedit/internal/ai"
)

// ask prompts for a question and sends it with the buffer as code context.
func (e *Editor) ask() {
	e.promptShow("Ask AI", func(q string) {
		if strings.TrimSpace(q) == "" {
			e.setStatus("Cancelled")
			return
		}
		conv, ch := e.assistant.SendMessage(e.ctx, e.conv, q, e.Text())
		e.conv = conv
		e.setStatus("Asking AI...")
		e.await(ch, e.convEpoch)
	})
}

// followUp prompts for a question that continues the conversation.
func (e *Editor) followUp() {
	e.promptShow("Follow-up", func(q string) {
		if strings.TrimSpace(q) == "" {
			e.setStatus("Cancelled")
			return
		}
		conv, ch := e.assistant.SendFollowUp(e.ctx, e.conv, q)
		e.conv = conv
		e.setStatus("Asking AI...")
		e.await(ch, e.convEpoch)
	})
}

// suggest asks for improvement hints on the buffer.
func (e *Editor) suggest() {
	e.setStatus("Analyzing code...")
	e.await(e.assistant.RequestSuggestions(e.ctx, e.Text()), e.convEpoch)
}

// await delivers the reply on ch to the event loop, tagged with the
// conversation epoch it was sent in.
func (e *Editor) await(ch <-chan ai.Reply, epoch int) {
	go func() {
		r := <-ch
		e.post(func(e *Editor) { e.applyReply(r, epoch) })
	}()
}

// applyReply routes a reply by the kind it was sent with. Chat and
// follow-up replies to a conversation that has since been cleared are
// discarded.
func (e *Editor) applyReply(r ai.Reply, epoch int) {
	if r.Kind != ai.KindSuggestions && epoch != e.convEpoch {
		e.log.Info("discarding reply to cleared conversation", zap.Stringer("request", r.ID), zap.Stringer("kind", r.Kind))
		return
	}
	e.log.Info("ai reply", zap.Stringer("request", r.ID), zap.Stringer("kind", r.Kind), zap.Error(r.Err))
	e.conv = e.conv.Record(r)

	if r.Kind == ai.KindSuggestions {
		e.setOutput("Suggestions:\n" + r.Render())
		e.setStatus("Suggestions ready")
		return
	}
	e.setOutput(r.Render())
	if r.Err != nil {
		e.showError("AI request failed")
		return
	}
	e.setStatus("AI response received")
}

// clearConversation forgets the transcript and empties the output pane.
func (e *Editor) clearConversation() {
	e.conv = e.conv.Clear()
	e.convEpoch++
	e.output = nil
	e.setStatus("Conversation cleared")
}
