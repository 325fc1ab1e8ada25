package web

import (
	"errors"
	"net/http"

	"redconnect/internal/adapters/http/middleware"
	"redconnect/internal/application/orchestrators"
	"redconnect/internal/domain/chat"
)

type chatPage struct {
	Messages   []chat.Message
	CanEmail   bool
	ReplyEmail string
}

// errTranscriptLimited is shown when one address asks for too many support emails.
var errTranscriptLimited = errors.New("too many transcript requests, please try again later")

// conversation returns this browser's chat, creating it on first use.
func (s *Server) conversation(r *http.Request) *chat.Conversation {
	return s.deps.Chats.Get(middleware.ClientIDFromContext(r.Context()))
}

// history returns this browser's messages without creating a conversation.
func (s *Server) history(r *http.Request) []chat.Message {
	return s.deps.Chats.Peek(middleware.ClientIDFromContext(r.Context()))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	s.renderTemplate(w, r, http.StatusOK, "chat.html", chatPage{
		Messages:   s.history(r),
		CanEmail:   s.deps.SupportAddress != "",
		ReplyEmail: sess.Email,
	})
}

// handleChatSend appends the user's message and waits for the reply before redirecting back.
func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteSendChatMessage(r.Context(), orchestrators.SendChatMessageInput{
		Conversation: s.conversation(r),
		Text:         r.PostFormValue("message"),
	}, orchestrators.SendChatMessageDeps{Responder: s.deps.Responder})
	if err != nil && !errors.Is(err, chat.ErrEmptyMessage) {
		s.redirect(w, r, "/chat", failure("Message Not Sent", userMessage(err)))
		return
	}
	http.Redirect(w, r, "/chat#latest", http.StatusSeeOther)
}

// handleChatTranscript emails the conversation to the support inbox.
// Each conversation is sent at most once per new message and each address is budgeted.
func (s *Server) handleChatTranscript(w http.ResponseWriter, r *http.Request) {
	if !s.transcripts.Allow(middleware.ClientIP(r)) {
		s.redirect(w, r, "/chat", failure("Transcript Not Sent", sentence(errTranscriptLimited.Error())))
		return
	}
	replyTo := form(r, "reply_to")
	if replyTo == "" {
		replyTo = middleware.SessionFromContext(r.Context()).Email
	}
	_, err := orchestrators.ExecuteEmailChatTranscript(r.Context(), orchestrators.EmailChatTranscriptInput{
		Conversation: s.conversation(r),
		ReplyTo:      replyTo,
	}, orchestrators.EmailChatTranscriptDeps{Sender: s.deps.Email, SupportAddress: s.deps.SupportAddress})
	if err != nil {
		s.redirect(w, r, "/chat", failure("Transcript Not Sent", userMessage(err)))
		return
	}
	s.redirect(w, r, "/chat", success("Transcript Sent", "Our support team will get back to you soon"))
}

// --- JSON ---

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    *chat.Message  `json:"reply,omitempty"`
	Messages []chat.Message `json:"messages"`
	Error    string         `json:"error,omitempty"`
}

func (s *Server) handleChatAPIList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chatResponse{Messages: s.history(r)})
}

// handleChatAPISend is the script-driven variant of handleChatSend.
func (s *Server) handleChatAPISend(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := strictDecode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "invalid request body"})
		return
	}
	conv := s.conversation(r)
	reply, err := orchestrators.ExecuteSendChatMessage(r.Context(), orchestrators.SendChatMessageInput{
		Conversation: conv,
		Text:         req.Message,
	}, orchestrators.SendChatMessageDeps{Responder: s.deps.Responder})
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, chatResponse{Messages: conv.Messages(), Error: userMessage(err)})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, chatResponse{Messages: conv.Messages(), Error: userMessage(err)})
	default:
		writeJSON(w, http.StatusOK, chatResponse{Reply: &reply, Messages: conv.Messages()})
	}
}
