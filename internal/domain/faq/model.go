package faq

import (
	"errors"
	"strings"
)

// Category constants
const (
	CategoryGettingStarted = "getting-started"
	CategoryLifeSituation  = "life-situation"
	CategoryUnderstanding  = "understanding"
	CategoryPractical      = "practical"
	CategoryMoreHelp       = "more-help"
)

// ValidCategories contains all valid FAQ categories in display order.
var ValidCategories = []string{
	CategoryGettingStarted,
	CategoryLifeSituation,
	CategoryUnderstanding,
	CategoryPractical,
	CategoryMoreHelp,
}

// Domain errors
var (
	ErrEmptyQuestion   = errors.New("faq question cannot be empty")
	ErrEmptyAnswer     = errors.New("faq answer cannot be empty")
	ErrInvalidCategory = errors.New("faq category is not recognized")
)

// Entry is one question/answer pair. Answer is authored in Markdown and
// rendered to HTML at the edge.
type Entry struct {
	ID       string
	Question string
	Answer   string
	Category string
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Question) == "" {
		return ErrEmptyQuestion
	}
	if strings.TrimSpace(e.Answer) == "" {
		return ErrEmptyAnswer
	}
	if !isValidCategory(e.Category) {
		return ErrInvalidCategory
	}
	return nil
}

// ByCategory filters entries to one category, preserving order.
func ByCategory(entries []Entry, category string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Search returns entries whose question contains the query, case-insensitive.
// PRE: query may be empty
// POST: Empty query returns all entries
func Search(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Question), q) {
			out = append(out, e)
		}
	}
	return out
}

func isValidCategory(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}
