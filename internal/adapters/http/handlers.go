package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"readspace/internal/adapters/http/middleware"
	"readspace/internal/application/authevents"
	"readspace/internal/application/orchestrators"
	"readspace/internal/application/policy"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// viewerFromRequest builds the access-policy viewer from the session, if any.
func viewerFromRequest(r *http.Request) policy.Viewer {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return policy.Viewer{}
	}
	return policy.Viewer{UserID: sess.AccountID}
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	name := ""
	if ok {
		role = sess.Role
		email = sess.Email
		name = sess.Name
	}

	funcMap := template.FuncMap{
		"currentRole":    func() string { return role },
		"currentEmail":   func() string { return email },
		"currentName":    func() string { return name },
		"isLoggedIn":     func() bool { return role != "" },
		"csrfToken":      func() string { return csrf.Token(r) },
		"renderMarkdown": renderMarkdown,
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
		"joinList":       func(items []string) string { return strings.Join(items, ", ") },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// safeRedirectTarget restricts post-login redirects to local paths.
func safeRedirectTarget(raw string) string {
	if raw == "" {
		return "/my-pathways"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/my-pathways"
	}
	return u.RequestURI()
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	redirectTo := safeRedirectTarget(r.URL.Query().Get("redirect"))

	if r.Method == "GET" {
		// If already logged in, go straight to the requested page
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, redirectTo, http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Redirect":  r.URL.Query().Get("redirect"),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		redirectTo = safeRedirectTarget(r.FormValue("Redirect"))

		input := orchestrators.LoginInput{
			Email:    r.FormValue("Email"),
			Password: r.FormValue("Password"),
		}

		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Redirect":  r.FormValue("Redirect"),
				"Error":     err.Error(),
			})
			return
		}

		token, err := sessions.Create(result.AccountID, result.Email, result.Name, result.Role)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		middleware.SetSessionCookie(w, token)
		if authBroker != nil {
			authBroker.Publish(&authevents.Identity{
				UserID: result.AccountID,
				Email:  result.Email,
				Name:   result.Name,
				Role:   result.Role,
			})
		}
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleSignup handles GET (form) and POST (create account) for /signup
func handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/my-pathways", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "signup.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Redirect":  r.URL.Query().Get("redirect"),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		if r.FormValue("Password") != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "signup.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Redirect":  r.FormValue("Redirect"),
				"Error":     "Passwords do not match",
			})
			return
		}

		input := orchestrators.CreateAccountInput{
			Email:    r.FormValue("Email"),
			Name:     r.FormValue("Name"),
			Password: r.FormValue("Password"),
		}
		accountID, err := orchestrators.ExecuteCreateAccount(r.Context(), input, orchestrators.CreateAccountDeps{
			AccountStore: stores.AccountStore,
		})
		if err != nil {
			renderTemplate(w, r, "signup.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Redirect":  r.FormValue("Redirect"),
				"Error":     err.Error(),
			})
			return
		}

		// New accounts are signed in immediately
		acct, err := stores.AccountStore.GetByID(r.Context(), accountID)
		if err != nil {
			internalError(w, err)
			return
		}
		token, err := sessions.Create(acct.ID, acct.Email, acct.Name, acct.Role)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}
		middleware.SetSessionCookie(w, token)
		if authBroker != nil {
			authBroker.Publish(&authevents.Identity{
				UserID: acct.ID,
				Email:  acct.Email,
				Name:   acct.Name,
				Role:   acct.Role,
			})
		}
		http.Redirect(w, r, safeRedirectTarget(r.FormValue("Redirect")), http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie("readspace_session")
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	if authBroker != nil {
		authBroker.Publish(nil)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleSessionInfo handles GET /api/session
// Returns the current identity, or 204 when anonymous.
func handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"UserID": sess.AccountID,
		"Email":  sess.Email,
		"Name":   sess.Name,
		"Role":   sess.Role,
	})
}
