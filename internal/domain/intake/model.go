package intake

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Session type constants
const (
	SessionAudio = "audio"
	SessionVideo = "video"
)

// ValidSessionTypes contains all valid session types.
var ValidSessionTypes = []string{SessionAudio, SessionVideo}

// ValidDurations contains the bookable session lengths in minutes.
var ValidDurations = []int{30, 60, 90}

// DefaultSheetHeaders is the booking sheet's header row when a sheet has to
// be created from scratch.
var DefaultSheetHeaders = []string{
	"Timestamp",
	"Name",
	"Email",
	"Phone",
	"Date of Birth",
	"Time of Birth",
	"Place of Birth",
	"Area of Guidance",
	"What Feels Unclear",
	"Session Type",
	"Duration (minutes)",
	"Package",
}

// Domain errors
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrInvalidEmail       = errors.New("email must contain '@'")
	ErrInvalidSessionType = errors.New("session type must be 'audio' or 'video'")
	ErrInvalidDuration    = errors.New("duration must be 30, 60 or 90 minutes")
)

// Submission is one consultation intake form submission.
type Submission struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	DateOfBirth     string // YYYY-MM-DD as entered
	TimeOfBirth     string // HH:MM as entered
	PlaceOfBirth    string
	Area            string // primary area of guidance
	Unclear         string // what feels unclear
	SessionType     string // "audio" or "video"
	DurationMinutes int
	IsPackage       bool
	SubmittedAt     time.Time
}

// Validate checks if the Submission has valid data.
// PRE: Submission struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(s.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(s.Email, "@") {
		return ErrInvalidEmail
	}
	if !isValidSessionType(s.SessionType) {
		return ErrInvalidSessionType
	}
	if !isValidDuration(s.DurationMinutes) {
		return ErrInvalidDuration
	}
	return nil
}

// Row maps the submission onto a spreadsheet row in header order.
// Headers are matched case-insensitively by substring, so sheets with
// columns like "Phone Number" or "Date Submitted" map without configuration.
// PRE: headers is the sheet's first row
// POST: Returns one cell per header; unrecognized headers map to ""
func (s *Submission) Row(headers []string) []string {
	row := make([]string, len(headers))
	for i, header := range headers {
		row[i] = s.cellFor(header)
	}
	return row
}

func (s *Submission) cellFor(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "name"):
		return s.Name
	case strings.Contains(h, "email"):
		return s.Email
	case strings.Contains(h, "phone"):
		return s.Phone
	case strings.Contains(h, "date of birth"), strings.Contains(h, "dob"), strings.Contains(h, "birth date"):
		return s.DateOfBirth
	case strings.Contains(h, "time of birth"), strings.Contains(h, "tob"), strings.Contains(h, "birth time"):
		return s.TimeOfBirth
	case strings.Contains(h, "place of birth"), strings.Contains(h, "pob"), strings.Contains(h, "birth place"):
		return s.PlaceOfBirth
	case strings.Contains(h, "area"), strings.Contains(h, "guidance"):
		return s.Area
	case strings.Contains(h, "unclear"), strings.Contains(h, "what feels"), strings.Contains(h, "question"):
		return s.Unclear
	case strings.Contains(h, "session type"), strings.Contains(h, "audio/video"), strings.Contains(h, "type"):
		return s.SessionType
	case strings.Contains(h, "duration"), strings.Contains(h, "minutes"):
		return strconv.Itoa(s.DurationMinutes)
	case strings.Contains(h, "package"):
		if s.IsPackage {
			return "Yes"
		}
		return "No"
	case strings.Contains(h, "timestamp"), strings.Contains(h, "submitted"):
		return s.SubmittedAt.Format(time.RFC3339)
	default:
		return ""
	}
}

func isValidSessionType(t string) bool {
	for _, v := range ValidSessionTypes {
		if v == t {
			return true
		}
	}
	return false
}

func isValidDuration(d int) bool {
	for _, v := range ValidDurations {
		if v == d {
			return true
		}
	}
	return false
}
