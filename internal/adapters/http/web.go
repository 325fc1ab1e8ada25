// Package web serves the Red Connect pages. Every page is rendered on the server
// from data fetched through the remote API on behalf of the browser.
package web

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/yuin/goldmark"
	"golang.org/x/crypto/hkdf"

	"redconnect/internal/adapters/api"
	"redconnect/internal/adapters/email"
	"redconnect/internal/adapters/http/middleware"
	"redconnect/internal/adapters/http/perf"
	"redconnect/internal/application/orchestrators"
	"redconnect/internal/domain/chat"
	"redconnect/internal/domain/guard"
)

//go:embed static
var staticFS embed.FS

// DefaultRateLimitPerSecond is the per-IP request budget when none is configured.
const DefaultRateLimitPerSecond = 10

// Per-IP budget for support transcript emails.
const (
	TranscriptsPerWindow = 3
	TranscriptWindow     = 10 * time.Minute
)

// SessionStore loads, saves and clears browser sessions.
type SessionStore interface {
	middleware.SessionLoader
	orchestrators.SessionWriter
}

// Deps holds everything the web layer needs.
type Deps struct {
	API                *api.Client
	Sessions           SessionStore
	Chats              *chat.Registry
	Responder          chat.Responder
	Email              email.Sender
	SupportAddress     string
	Collector          *perf.Collector
	Secret             []byte // 32 bytes; CSRF and cookie keys are derived from it
	SecureCookies      bool
	TrustedOrigins     []string
	SlowRequest        time.Duration
	RateLimitPerSecond int
}

// Server renders pages and handles form posts.
type Server struct {
	deps        Deps
	cookies     *securecookie.SecureCookie
	md          goldmark.Markdown
	transcripts *middleware.RateLimiter
}

// NewServer creates a server.
// PRE: deps.API, deps.Sessions and deps.Chats are non-nil; len(deps.Secret) >= 32
func NewServer(deps Deps) (*Server, error) {
	hashKey, err := deriveKey(deps.Secret, "redconnect cookie hash v1")
	if err != nil {
		return nil, err
	}
	blockKey, err := deriveKey(deps.Secret, "redconnect cookie block v1")
	if err != nil {
		return nil, err
	}
	cookies := securecookie.New(hashKey, blockKey)
	cookies.SetSerializer(securecookie.JSONEncoder{})
	cookies.MaxAge(0)

	if deps.Responder == nil {
		deps.Responder = chat.NewCannedResponder(chat.DefaultDelay)
	}
	if deps.Email == nil {
		deps.Email = email.NewNoopSender()
	}
	if deps.RateLimitPerSecond <= 0 {
		deps.RateLimitPerSecond = DefaultRateLimitPerSecond
	}
	return &Server{
		deps:        deps,
		cookies:     cookies,
		md:          goldmark.New(),
		transcripts: middleware.NewRateLimiter(TranscriptsPerWindow, TranscriptWindow),
	}, nil
}

// NewMux builds the full handler: routes wrapped in the middleware chain.
func NewMux(deps Deps) (http.Handler, error) {
	s, err := NewServer(deps)
	if err != nil {
		return nil, err
	}
	return s.Handler()
}

// Handler wraps the routes in the middleware chain.
func (s *Server) Handler() (http.Handler, error) {
	csrfKey, err := deriveKey(s.deps.Secret, "redconnect csrf v1")
	if err != nil {
		return nil, err
	}
	limiter := middleware.NewRateLimiter(s.deps.RateLimitPerSecond, time.Second)

	// Timing -> RateLimit -> Client -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(s.routes(),
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, middleware.CSRFOptions{
			Secure:         s.deps.SecureCookies,
			TrustedOrigins: s.deps.TrustedOrigins,
		}),
		middleware.Client(s.deps.Sessions, s.cookies, s.deps.SecureCookies),
		middleware.RateLimit(limiter),
		middleware.Timing(s.deps.Collector, s.deps.SlowRequest),
	), nil
}

// routes registers every page. Method-less patterns accept GET and POST.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /blood-banks", s.handleBloodBanks)

	// Auth
	mux.HandleFunc("/donor-login", s.handleLogin(guard.AreaDonor))
	mux.HandleFunc("/organizer-login", s.handleLogin(guard.AreaOrganizer))
	mux.HandleFunc("/donor-register", s.handleDonorRegister)
	mux.HandleFunc("/organizer-register", s.handleOrganizerRegister)
	mux.HandleFunc("GET /go/{area}", s.handleNavigate)
	mux.HandleFunc("/switch-role", s.handleSwitchRole)
	mux.HandleFunc("POST /logout", s.handleLogout)

	// Events
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /events/{id}", s.handleEventDetail)
	mux.HandleFunc("POST /events/{id}/join", s.handleJoinEvent)

	// Donor
	mux.HandleFunc("GET /donor-dashboard", s.handleDonorDashboard)
	mux.HandleFunc("POST /donor-dashboard/profile", s.handleDonorProfileSave)

	// Organizer
	mux.HandleFunc("GET /organizer-dashboard", s.handleOrganizerDashboard)
	mux.HandleFunc("POST /organizer-dashboard/profile", s.handleOrganizerProfileSave)
	mux.HandleFunc("POST /organizer-dashboard/events", s.handleEventCreate)
	mux.HandleFunc("POST /organizer-dashboard/events/{id}", s.handleEventUpdate)
	mux.HandleFunc("POST /organizer-dashboard/events/{id}/delete", s.handleEventDelete)
	mux.HandleFunc("POST /organizer-dashboard/certificates", s.handleCertificateIssue)

	// Chat
	mux.HandleFunc("GET /chat", s.handleChat)
	mux.HandleFunc("POST /chat/messages", s.handleChatSend)
	mux.HandleFunc("POST /chat/transcript", s.handleChatTranscript)
	mux.HandleFunc("GET /api/chat", s.handleChatAPIList)
	mux.HandleFunc("POST /api/chat", s.handleChatAPISend)

	mux.HandleFunc("/", s.handleNotFound)
	return mux
}

// apiFor returns the gateway authenticated as the current browser, if it holds a token.
func (s *Server) apiFor(r *http.Request) *api.Client {
	return s.deps.API.WithToken(middleware.SessionFromContext(r.Context()).Token)
}

// deriveKey expands the app secret into an independent 32-byte key for one purpose.
func deriveKey(secret []byte, info string) ([]byte, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("secret must be at least 32 bytes, got %d", len(secret))
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %s: %w", info, err)
	}
	return key, nil
}
