package web

import "net/http"

// registerRoutes attaches all application routes to the mux.
func registerRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/signup", handleSignup)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/api/session", handleSessionInfo)
	mux.HandleFunc("/change-password", handleChangePassword)

	// Pathways
	mux.HandleFunc("/pathways", handlePathways)
	mux.HandleFunc("/pathways/view", handlePathwayDetail)
	mux.HandleFunc("/pathways/start", handleStartPathway)
	mux.HandleFunc("/my-pathways", handleMyPathways)
	mux.HandleFunc("/api/assignments/day", handleDayCompletion)

	// FAQ
	mux.HandleFunc("/faq", handleFAQ)

	// Consultation intake
	mux.HandleFunc("/intake", handleIntake)
}
