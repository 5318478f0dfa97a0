package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"readspace/internal/adapters/email"
	"readspace/internal/adapters/http/middleware"
	"readspace/internal/adapters/sheet"
	accountStore "readspace/internal/adapters/storage/account"
	assignmentStore "readspace/internal/adapters/storage/assignment"
	intakeStore "readspace/internal/adapters/storage/intake"
	pathwayStore "readspace/internal/adapters/storage/pathway"
	"readspace/internal/application/authevents"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	PathwayStore    pathwayStore.Store
	AssignmentStore assignmentStore.Store
	IntakeStore     intakeStore.Store
}

// loadCSRFKey reads the CSRF secret from READSPACE_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("READSPACE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("READSPACE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("READSPACE_ENV") == "production" {
		log.Fatal("READSPACE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set READSPACE_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global auth event broker (set by NewMux)
var authBroker *authevents.Broker

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailNotifyAddress string

// Global booking sheet appender (set by SetSheetAppender)
var sheetAppender sheet.Appender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, notifyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailNotifyAddress = notifyTo
}

// SetSheetAppender sets the global booking sheet appender.
func SetSheetAppender(a sheet.Appender) {
	sheetAppender = a
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, broker *authevents.Broker) http.Handler {
	stores = s
	authBroker = broker
	sessions = middleware.NewSessionStore()

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
