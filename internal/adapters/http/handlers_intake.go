package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"

	"readspace/internal/adapters/sheet"
	"readspace/internal/application/orchestrators"
	"readspace/internal/domain/intake"
)

// handleIntake handles GET (form) and POST (submit) for /intake
func handleIntake(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "intake.html", map[string]any{
			"CSRFToken":    csrf.Token(r),
			"SessionTypes": intake.ValidSessionTypes,
			"Durations":    intake.ValidDurations,
		})
		return
	}

	if r.Method == "POST" {
		ctx := r.Context()
		isHTML := isHTMLRequest(r)

		input := orchestrators.SubmitIntakeInput{}

		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Name = r.FormValue("Name")
			input.Email = r.FormValue("Email")
			input.Phone = r.FormValue("Phone")
			input.DateOfBirth = r.FormValue("DateOfBirth")
			input.TimeOfBirth = r.FormValue("TimeOfBirth")
			input.PlaceOfBirth = r.FormValue("PlaceOfBirth")
			input.Area = r.FormValue("Area")
			input.Unclear = r.FormValue("Unclear")
			input.SessionType = r.FormValue("SessionType")
			input.DurationMinutes, _ = strconv.Atoi(r.FormValue("DurationMinutes"))
			input.IsPackage = r.FormValue("IsPackage") == "true"
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		appender := sheetAppender
		if appender == nil {
			appender = sheet.NewNoopAppender(intake.DefaultSheetHeaders)
		}
		sub, err := orchestrators.ExecuteSubmitIntake(ctx, input, orchestrators.SubmitIntakeDeps{
			IntakeStore: stores.IntakeStore,
			Sheet:       appender,
			EmailSender: emailSender,
			NotifyTo:    emailNotifyAddress,
			NotifyFrom:  emailFromAddress,
		})
		if err != nil {
			switch err {
			case intake.ErrEmptyName, intake.ErrEmptyEmail, intake.ErrInvalidEmail,
				intake.ErrInvalidSessionType, intake.ErrInvalidDuration:
				if isHTML {
					renderTemplate(w, r, "intake.html", map[string]any{
						"CSRFToken":    csrf.Token(r),
						"SessionTypes": intake.ValidSessionTypes,
						"Durations":    intake.ValidDurations,
						"Error":        err.Error(),
						"Form":         input,
					})
				} else {
					http.Error(w, err.Error(), http.StatusBadRequest)
				}
				return
			}
			internalError(w, err)
			return
		}

		if isHTML {
			renderTemplate(w, r, "intake_done.html", map[string]any{
				"Submission": sub,
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sub)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
