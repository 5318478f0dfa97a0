package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"readspace/internal/adapters/email"
	"readspace/internal/adapters/sheet"
	domainIntake "readspace/internal/domain/intake"

	"github.com/google/uuid"
)

// IntakeStoreForSubmit defines the store interface needed by SubmitIntake.
type IntakeStoreForSubmit interface {
	Save(ctx context.Context, value domainIntake.Submission) error
}

// SubmitIntakeInput carries the raw form fields.
type SubmitIntakeInput struct {
	Name            string
	Email           string
	Phone           string
	DateOfBirth     string
	TimeOfBirth     string
	PlaceOfBirth    string
	Area            string
	Unclear         string
	SessionType     string
	DurationMinutes int
	IsPackage       bool
}

// SubmitIntakeDeps holds dependencies for SubmitIntake.
type SubmitIntakeDeps struct {
	IntakeStore IntakeStoreForSubmit
	Sheet       sheet.Appender
	EmailSender email.Sender // nil skips the notification
	NotifyTo    string       // practice inbox for new-booking notifications
	NotifyFrom  string
}

// ExecuteSubmitIntake validates and records a consultation intake submission,
// appends it as a row to the booking sheet, and notifies the practice inbox.
// The submission is persisted before the sheet append, so a sheet failure
// never loses the booking; the email notification is advisory and its
// failure is logged, not returned.
// PRE: Input holds the raw form fields
// POST: Submission persisted and appended; returns the stored submission
func ExecuteSubmitIntake(ctx context.Context, input SubmitIntakeInput, deps SubmitIntakeDeps) (domainIntake.Submission, error) {
	sub := domainIntake.Submission{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.TrimSpace(input.Email),
		Phone:           strings.TrimSpace(input.Phone),
		DateOfBirth:     strings.TrimSpace(input.DateOfBirth),
		TimeOfBirth:     strings.TrimSpace(input.TimeOfBirth),
		PlaceOfBirth:    strings.TrimSpace(input.PlaceOfBirth),
		Area:            strings.TrimSpace(input.Area),
		Unclear:         strings.TrimSpace(input.Unclear),
		SessionType:     input.SessionType,
		DurationMinutes: input.DurationMinutes,
		IsPackage:       input.IsPackage,
		SubmittedAt:     time.Now(),
	}
	if err := sub.Validate(); err != nil {
		return domainIntake.Submission{}, err
	}

	if err := deps.IntakeStore.Save(ctx, sub); err != nil {
		return domainIntake.Submission{}, fmt.Errorf("save intake submission: %w", err)
	}

	headers, err := deps.Sheet.Headers(ctx)
	if err != nil {
		return domainIntake.Submission{}, fmt.Errorf("load sheet headers: %w", err)
	}
	if err := deps.Sheet.AppendRow(ctx, sub.Row(headers)); err != nil {
		return domainIntake.Submission{}, fmt.Errorf("append sheet row: %w", err)
	}

	if deps.EmailSender != nil && deps.NotifyTo != "" {
		if _, err := deps.EmailSender.Send(ctx, email.SendRequest{
			To:      []string{deps.NotifyTo},
			From:    deps.NotifyFrom,
			Subject: fmt.Sprintf("New intake: %s (%d min %s)", sub.Name, sub.DurationMinutes, sub.SessionType),
			HTML:    notificationHTML(sub),
		}); err != nil {
			slog.Warn("intake_notification_failed", "error", err.Error(), "submission_id", sub.ID)
		}
	}

	slog.Info("intake_event", "event", "submission_received", "submission_id", sub.ID, "session_type", sub.SessionType, "duration", sub.DurationMinutes)
	return sub, nil
}

func notificationHTML(sub domainIntake.Submission) string {
	var b strings.Builder
	b.WriteString("<h3>New intake submission</h3><ul>")
	fields := []struct{ label, value string }{
		{"Name", sub.Name},
		{"Email", sub.Email},
		{"Phone", sub.Phone},
		{"Date of birth", sub.DateOfBirth},
		{"Time of birth", sub.TimeOfBirth},
		{"Place of birth", sub.PlaceOfBirth},
		{"Area of guidance", sub.Area},
		{"What feels unclear", sub.Unclear},
		{"Session type", sub.SessionType},
		{"Duration", fmt.Sprintf("%d minutes", sub.DurationMinutes)},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", f.label, html.EscapeString(f.value))
	}
	if sub.IsPackage {
		b.WriteString("<li><strong>Package:</strong> Yes</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
