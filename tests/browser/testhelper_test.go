package browser_test

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"redconnect/internal/adapters/api"
	"redconnect/internal/adapters/email"
	web "redconnect/internal/adapters/http"
	"redconnect/internal/adapters/storage"
	"redconnect/internal/adapters/storage/clientstore"
	appSession "redconnect/internal/application/session"
	"redconnect/internal/domain/chat"
)

const (
	donorEmail    = "donor@test.com"
	donorPassword = "TestPass123!"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fakeAPI is a minimal Red Connect backend with one donor and one event.
type fakeAPI struct {
	mu     sync.Mutex
	joined map[int64]int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/donor/login", func(w http.ResponseWriter, r *http.Request) {
		var c struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Email != donorEmail || c.Password != donorPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "browser-token", "token_type": "bearer", "user_id": 1, "role": "donor"})
	})
	mux.HandleFunc("GET /api/donors/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "full_name": "Asha Rao", "email": donorEmail, "blood_type": "O+"})
	})
	mux.HandleFunc("GET /api/donations/my-donations", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("GET /api/certificates/my-certificates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("GET /api/events/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{f.event()})
	})
	mux.HandleFunc("GET /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.event())
	})
	mux.HandleFunc("POST /api/events/{id}/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer browser-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
			return
		}
		f.mu.Lock()
		f.joined[1]++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"message": "Successfully registered for event"})
	})
	return mux
}

func (f *fakeAPI) event() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return map[string]any{
		"id": 1, "organizer_id": 2, "title": "City Hospital Drive", "event_date": "2026-12-01",
		"venue": "City Hospital", "city": "Pune", "state": "Maharashtra",
		"max_participants": 50, "registered_participants": 10 + f.joined[1], "status": "upcoming",
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// testApp holds the running web client and Playwright handles.
type testApp struct {
	BaseURL string
	API     *fakeAPI
	Mail    *email.NoopSender
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the web client against a fake backend and a temp SQLite DB.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	remote := &fakeAPI{joined: map[int64]int{}}
	apiServer := httptest.NewServer(remote.handler())
	t.Cleanup(apiServer.Close)

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sealer, err := clientstore.NewSealer(testSecret)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	mail := email.NewNoopSender()
	mux, err := web.NewMux(web.Deps{
		API:            api.New(apiServer.URL, apiServer.Client()),
		Sessions:       appSession.NewService(clientstore.NewSQLiteStore(db, sealer)),
		Chats:          chat.NewRegistry(),
		Responder:      chat.NewCannedResponder(10 * time.Millisecond),
		Email:          mail,
		SupportAddress: "support@test.com",
		Secret:         testSecret,
		TrustedOrigins: []string{fmt.Sprintf("127.0.0.1:%d", port), fmt.Sprintf("localhost:%d", port)},
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()
	t.Cleanup(func() { srv.Close() })

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &testApp{BaseURL: baseURL, API: remote, Mail: mail, PW: pw, Browser: browser}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// loginDonor signs in through the donor login form.
func (a *testApp) loginDonor(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/donor-login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(donorEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(donorPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("[data-testid=login-form] button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/donor-dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}
