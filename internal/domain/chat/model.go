package chat

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"redconnect/internal/domain/formcheck"
)

// Sender constants
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Greeting is the first bot message of every conversation.
const Greeting = "Hello! 👋 Welcome to RED+ Blood Donation Support. How can I assist you today?"

// DefaultDelay is the simulated reply latency.
const DefaultDelay = 1500 * time.Millisecond

// Memory bounds for in-process conversations.
const (
	MaxMessages      = 200
	MaxConversations = 10000
	ConversationTTL  = 2 * time.Hour
)

// Chat errors
var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrNothingToSend  = errors.New("send a message before emailing the conversation")
	ErrTranscriptSent = errors.New("this conversation has already been sent to support")
	ErrInvalidReplyTo = errors.New("please enter a valid email address")
)

// TranscriptRequest is the visitor's request to email the conversation.
type TranscriptRequest struct {
	ReplyTo string `validate:"omitempty,email"`
}

// Validate checks the optional reply address.
func (r TranscriptRequest) Validate() error {
	r.ReplyTo = strings.TrimSpace(r.ReplyTo)
	return formcheck.Check(r, formcheck.Rule{Tag: "email", Err: ErrInvalidReplyTo})
}

// Replies are the static bot answers. The user's text is not inspected.
var Replies = []string{
	"I'd be happy to help you with that! You can find our nearest blood bank locations in the Blood Bank Directory section.",
	"Thank you for your interest in donating blood! To become a donor, please click on 'Become a Donor' in our navigation menu.",
	"Blood donation is safe and takes only about 10-15 minutes. You can donate every 56 days if you meet the eligibility criteria.",
	"For any urgent blood requirements, please contact your nearest blood bank directly or call our emergency helpline.",
	"Your blood type compatibility information is available on our Donation Process page. Would you like me to guide you there?",
}

// Message is one chat bubble.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// FromBot reports whether the message was written by the responder.
func (m Message) FromBot() bool {
	return m.Sender == SenderBot
}

func newMessage(sender, content string, now time.Time) Message {
	return Message{ID: uuid.NewString(), Sender: sender, Content: content, Timestamp: now}
}

// Responder produces a bot reply for the latest user text.
type Responder interface {
	Reply(ctx context.Context, history []Message, text string) (string, error)
}

// CannedResponder waits Delay and then returns one of Replies at random.
type CannedResponder struct {
	Delay time.Duration
	Pick  func(n int) int
}

// NewCannedResponder returns a responder with the given delay and a uniform picker.
func NewCannedResponder(delay time.Duration) *CannedResponder {
	return &CannedResponder{Delay: delay, Pick: rand.IntN}
}

// Reply blocks for Delay unless ctx is cancelled first.
// POST: Returned text is always an element of Replies
func (r *CannedResponder) Reply(ctx context.Context, _ []Message, _ string) (string, error) {
	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	pick := r.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return Replies[pick(len(Replies))], nil
}

// Conversation is an in-memory transcript that starts with the greeting.
// INVARIANT: len(messages) <= MaxMessages and messages[0] is the greeting
type Conversation struct {
	mu         sync.Mutex
	messages   []Message
	appended   int // messages ever appended; never decreases when history is trimmed
	emailed    int // value of appended when the transcript was last claimed
	lastActive time.Time
	now        func() time.Time
}

// NewConversation starts a conversation with the greeting.
func NewConversation(now func() time.Time) *Conversation {
	if now == nil {
		now = time.Now
	}
	return &Conversation{
		messages:   []Message{greeting(now())},
		lastActive: now(),
		now:        now,
	}
}

func greeting(at time.Time) Message {
	return newMessage(SenderBot, Greeting, at)
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// append adds m, dropping the oldest messages after the greeting beyond MaxMessages.
// PRE: c.mu is held
func (c *Conversation) append(m Message) {
	c.messages = append(c.messages, m)
	if over := len(c.messages) - MaxMessages; over > 0 {
		c.messages = append(c.messages[:1], c.messages[1+over:]...)
	}
	c.appended++
	c.lastActive = c.now()
}

// Send appends the user message, waits for the responder and appends its reply.
// Blank text is ignored with ErrEmptyMessage and nothing is appended.
// The user message is kept even when the responder fails.
func (c *Conversation) Send(ctx context.Context, r Responder, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	c.mu.Lock()
	c.append(newMessage(SenderUser, text, c.now()))
	history := make([]Message, len(c.messages))
	copy(history, c.messages)
	c.mu.Unlock()

	reply, err := r.Reply(ctx, history, text)
	if err != nil {
		return Message{}, err
	}

	msg := newMessage(SenderBot, reply, c.now())
	c.mu.Lock()
	c.append(msg)
	c.mu.Unlock()
	return msg, nil
}

// ClaimTranscript reserves the current conversation for one support email.
// The same content is never claimed twice; release gives the claim back when sending fails.
// POST: Returns ErrNothingToSend before the first user message and
// ErrTranscriptSent when nothing was added since the last claim
func (c *Conversation) ClaimTranscript() (msgs []Message, release func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.appended == 0 {
		return nil, nil, ErrNothingToSend
	}
	if c.appended == c.emailed {
		return nil, nil, ErrTranscriptSent
	}
	prev, claimed := c.emailed, c.appended
	c.emailed = claimed
	msgs = make([]Message, len(c.messages))
	copy(msgs, c.messages)
	release = func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.emailed == claimed {
			c.emailed = prev
		}
	}
	return msgs, release, nil
}

func (c *Conversation) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Transcript renders the conversation as plain text.
func (c *Conversation) Transcript() string {
	return FormatTranscript(c.Messages())
}

// FormatTranscript renders msgs as plain text, one line per message.
func FormatTranscript(msgs []Message) string {
	var b strings.Builder
	for _, m := range msgs {
		who := "You"
		if m.FromBot() {
			who = "RED+ Support"
		}
		b.WriteString("[" + m.Timestamp.Format("15:04") + "] " + who + ": " + m.Content + "\n")
	}
	return b.String()
}

// Registry keeps one conversation per browser client. Conversations live only in memory.
// INVARIANT: len(convs) <= max
type Registry struct {
	mu    sync.Mutex
	convs map[string]*Conversation
	max   int
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{convs: make(map[string]*Conversation), max: MaxConversations, now: time.Now}
}

// Peek returns the messages of clientID's conversation without creating one.
// An unknown client sees only the greeting.
func (r *Registry) Peek(clientID string) []Message {
	r.mu.Lock()
	c, ok := r.convs[clientID]
	r.mu.Unlock()
	if !ok {
		return []Message{greeting(r.now())}
	}
	return c.Messages()
}

// Get returns the conversation for clientID, creating it on first use.
// A full registry first forgets conversations idle past ConversationTTL,
// then the least recently active one.
func (r *Registry) Get(clientID string) *Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.convs[clientID]; ok {
		return c
	}
	if len(r.convs) >= r.max {
		r.sweep()
	}
	c := NewConversation(r.now)
	r.convs[clientID] = c
	return c
}

// sweep drops idle conversations, or the oldest when none is idle.
// PRE: r.mu is held
func (r *Registry) sweep() {
	now := r.now()
	var (
		oldestID string
		oldest   time.Time
	)
	for id, c := range r.convs {
		seen := c.idleSince()
		if now.Sub(seen) > ConversationTTL {
			delete(r.convs, id)
			continue
		}
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if len(r.convs) >= r.max && oldestID != "" {
		delete(r.convs, oldestID)
	}
}

// Reset drops the conversation for clientID.
func (r *Registry) Reset(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.convs, clientID)
}
