package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "modernc.org/sqlite"

	emailPkg "readspace/internal/adapters/email"
	web "readspace/internal/adapters/http"
	"readspace/internal/adapters/sheet"
	"readspace/internal/adapters/storage"
	accountStore "readspace/internal/adapters/storage/account"
	assignmentStore "readspace/internal/adapters/storage/assignment"
	intakeStore "readspace/internal/adapters/storage/intake"
	pathwayStore "readspace/internal/adapters/storage/pathway"
	"readspace/internal/application/authevents"
	"readspace/internal/application/orchestrators"
	"readspace/internal/domain/intake"
	"readspace/internal/platform/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database schema: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Wrap DB with slow-query logging
	timedDB := storage.NewTimedDB(db, cfg.SlowQueryThreshold)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	pwStore := pathwayStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:    acctStore,
		PathwayStore:    pwStore,
		AssignmentStore: assignmentStore.NewSQLiteStore(timedDB),
		IntakeStore:     intakeStore.NewSQLiteStore(timedDB),
	}

	// Seed default admin account if no accounts exist
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed starter platform pathways if none exist
	if err := orchestrators.ExecuteSeedPathways(context.Background(), pwStore); err != nil {
		log.Fatalf("failed to seed pathways: %v", err)
	}

	// Configure email sender
	if cfg.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom), cfg.EmailFrom, cfg.IntakeInbox)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.EmailFrom, cfg.IntakeInbox)
		if cfg.IsProduction() {
			log.Println("WARNING: READSPACE_RESEND_KEY is not set; email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop; set READSPACE_RESEND_KEY for real delivery)")
		}
	}

	// Booking sheet: local CSV standing in for the practice spreadsheet
	web.SetSheetAppender(sheet.NewCSVAppender(cfg.BookingSheet, intake.DefaultSheetHeaders))

	// Auth event broker lets in-process consumers react to sign-in state
	broker := authevents.NewBroker()

	mux := web.NewMux(cfg.StaticDir, stores, broker)

	log.Printf("Read Space %s starting on %s (env=%s)", version, cfg.Addr, cfg.Env)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
