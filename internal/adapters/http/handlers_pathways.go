package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"

	"readspace/internal/adapters/http/middleware"
	pathwaystore "readspace/internal/adapters/storage/pathway"
	"readspace/internal/application/orchestrators"
	"readspace/internal/application/policy"
	domainAssignment "readspace/internal/domain/assignment"
	domainPathway "readspace/internal/domain/pathway"
)

// handlePathways handles GET /pathways
// Lists published platform pathways. Practitioner pathways never appear in
// the catalog; an assigned viewer reaches them by direct link or /my-pathways.
func handlePathways(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	published, err := stores.PathwayStore.ListPublished(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "pathways.html", map[string]any{
			"Pathways": published,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if published == nil {
		w.Write([]byte("[]"))
		return
	}
	json.NewEncoder(w).Encode(published)
}

// handlePathwayDetail handles GET /pathways/view?id=<id>
// The access decision drives the response: a missing identity redirects to
// login with a return-to parameter, any other denial is a 404 so hidden
// pathways are indistinguishable from absent ones.
func handlePathwayDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	p, err := stores.PathwayStore.GetByID(ctx, id)
	if errors.Is(err, pathwaystore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	viewer := viewerFromRequest(r)
	decision := policy.DecideView(p, viewer)
	if !decision.Allowed {
		if decision.RequiresAuth {
			http.Redirect(w, r, middleware.LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		http.NotFound(w, r)
		return
	}

	// An existing active enrollment changes the call to action.
	var active *domainAssignment.Assignment
	if !viewer.IsAnonymous() {
		if a, err := stores.AssignmentStore.FindActive(ctx, p.ID, viewer.UserID); err == nil {
			active = &a
		}
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "pathway_detail.html", map[string]any{
			"Pathway":          p,
			"Days":             domainPathway.GroupByDay(p.Blocks),
			"TotalDays":        domainPathway.MaxDay(p.Blocks),
			"ActiveAssignment": active,
			"CSRFToken":        csrf.Token(r),
			"Error":            r.URL.Query().Get("error"),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"Pathway":          p,
		"ActiveAssignment": active,
	})
}

// handleStartPathway handles POST /pathways/start
func handleStartPathway(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	input := orchestrators.StartPathwayInput{Viewer: viewerFromRequest(r)}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.PathwayID = r.FormValue("PathwayID")
		input.MaterialsAcknowledged = r.FormValue("MaterialsAcknowledged") == "true"
	} else {
		var body struct {
			PathwayID             string `json:"PathwayID"`
			MaterialsAcknowledged bool   `json:"MaterialsAcknowledged"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.PathwayID = body.PathwayID
		input.MaterialsAcknowledged = body.MaterialsAcknowledged
	}

	deps := orchestrators.StartPathwayDeps{
		PathwayStore:    stores.PathwayStore,
		AssignmentStore: stores.AssignmentStore,
	}
	created, err := orchestrators.ExecuteStartPathway(ctx, input, deps)

	var already *orchestrators.AlreadyAssignedError
	switch {
	case err == nil:
		// fall through to success response
	case errors.Is(err, orchestrators.ErrAuthRequired):
		if isHTML {
			http.Redirect(w, r, middleware.LoginURL("/pathways/view?id="+input.PathwayID), http.StatusSeeOther)
		} else {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
		return
	case errors.As(err, &already):
		if isHTML {
			http.Redirect(w, r, "/my-pathways", http.StatusSeeOther)
		} else {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{
				"Error":    err.Error(),
				"Existing": already.Existing,
			})
		}
		return
	case errors.Is(err, orchestrators.ErrAcknowledgmentRequired):
		if isHTML {
			http.Redirect(w, r, "/pathways/view?id="+input.PathwayID+"&error=acknowledge", http.StatusSeeOther)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	case errors.Is(err, orchestrators.ErrPathwayNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, orchestrators.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	default:
		internalError(w, err)
		return
	}

	if isHTML {
		http.Redirect(w, r, "/my-pathways", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// handleMyPathways handles GET /my-pathways
func handleMyPathways(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	viewer := viewerFromRequest(r)
	results, err := orchestrators.ExecuteListMyPathways(r.Context(), viewer, orchestrators.ListMyPathwaysDeps{
		AssignmentStore: stores.AssignmentStore,
		PathwayStore:    stores.PathwayStore,
	})
	if errors.Is(err, orchestrators.ErrAuthRequired) {
		http.Redirect(w, r, middleware.LoginURL("/my-pathways"), http.StatusSeeOther)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "my_pathways.html", map[string]any{
			"MyPathways": results,
			"CSRFToken":  csrf.Token(r),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// handleDayCompletion handles POST /api/assignments/day
// Toggles one day of the caller's assignment complete or incomplete.
func handleDayCompletion(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	isHTML := isHTMLRequest(r)

	input := orchestrators.SetDayCompletionInput{Viewer: viewerFromRequest(r)}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.AssignmentID = r.FormValue("AssignmentID")
		input.DayNumber, _ = strconv.Atoi(r.FormValue("DayNumber"))
		input.Complete = r.FormValue("Complete") == "true"
	} else {
		var body struct {
			AssignmentID string `json:"AssignmentID"`
			DayNumber    int    `json:"DayNumber"`
			Complete     bool   `json:"Complete"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.AssignmentID = body.AssignmentID
		input.DayNumber = body.DayNumber
		input.Complete = body.Complete
	}

	result, err := orchestrators.ExecuteSetDayCompletion(r.Context(), input, orchestrators.SetDayCompletionDeps{
		AssignmentStore: stores.AssignmentStore,
		PathwayStore:    stores.PathwayStore,
	})
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrAuthRequired):
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	case errors.Is(err, orchestrators.ErrAssignmentNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, domainAssignment.ErrDayOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		internalError(w, err)
		return
	}

	if isHTML {
		http.Redirect(w, r, "/my-pathways", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
