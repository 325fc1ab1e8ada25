package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"redconnect/internal/adapters/email"
	"redconnect/internal/domain/chat"
)

// ErrSupportUnavailable is returned when no support address is configured.
var ErrSupportUnavailable = errors.New("support email is not configured")

// --- Send Chat Message ---

// SendChatMessageInput carries the user's text and their conversation.
type SendChatMessageInput struct {
	Conversation *chat.Conversation
	Text         string
}

// SendChatMessageDeps holds dependencies for SendChatMessage.
type SendChatMessageDeps struct {
	Responder chat.Responder
}

// ExecuteSendChatMessage appends the user's text and the responder's reply.
// PRE: input.Conversation is non-nil
// POST: Blank text returns chat.ErrEmptyMessage and appends nothing
func ExecuteSendChatMessage(ctx context.Context, input SendChatMessageInput, deps SendChatMessageDeps) (chat.Message, error) {
	reply, err := input.Conversation.Send(ctx, deps.Responder, input.Text)
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyMessage) {
			slog.Warn("chat_event", "event", "reply_failed", "error", err)
		}
		return chat.Message{}, err
	}
	return reply, nil
}

// --- Email Chat Transcript ---

// EmailChatTranscriptInput carries the conversation and an optional reply address.
type EmailChatTranscriptInput struct {
	Conversation *chat.Conversation
	ReplyTo      string
}

// EmailChatTranscriptDeps holds dependencies for EmailChatTranscript.
type EmailChatTranscriptDeps struct {
	Sender         email.Sender
	SupportAddress string
}

// ExecuteEmailChatTranscript sends the conversation to the support inbox.
// PRE: input.Conversation is non-nil
// POST: One message is handed to the sender per new conversation content;
// an invalid reply address or an unchanged conversation sends nothing
func ExecuteEmailChatTranscript(ctx context.Context, input EmailChatTranscriptInput, deps EmailChatTranscriptDeps) (email.SendResult, error) {
	if deps.SupportAddress == "" {
		return email.SendResult{}, ErrSupportUnavailable
	}
	req := chat.TranscriptRequest{ReplyTo: strings.TrimSpace(input.ReplyTo)}
	if err := req.Validate(); err != nil {
		return email.SendResult{}, err
	}
	msgs, release, err := input.Conversation.ClaimTranscript()
	if err != nil {
		return email.SendResult{}, err
	}

	var body strings.Builder
	body.WriteString("<h2>RED+ chat transcript</h2><ul>")
	for _, m := range msgs {
		who := "Visitor"
		if m.FromBot() {
			who = "Bot"
		}
		fmt.Fprintf(&body, "<li><strong>%s</strong> <small>%s</small><br>%s</li>",
			who, m.Timestamp.Format("2006-01-02 15:04"), html.EscapeString(m.Content))
	}
	body.WriteString("</ul>")

	res, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{deps.SupportAddress},
		Subject: fmt.Sprintf("Chat transcript (%d messages)", len(msgs)),
		HTML:    body.String(),
		Text:    chat.FormatTranscript(msgs),
		ReplyTo: req.ReplyTo,
	})
	if err != nil {
		release()
		return email.SendResult{}, err
	}
	slog.Info("chat_event", "event", "transcript_emailed", "messages", len(msgs), "message_id", res.MessageID)
	return res, nil
}
