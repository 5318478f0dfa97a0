package web

import (
	"encoding/json"
	"html/template"
	"net/http"

	"readspace/internal/domain/faq"
)

// faqSection is one category with its rendered entries, for the FAQ page.
type faqSection struct {
	Category string
	Entries  []renderedEntry
}

type renderedEntry struct {
	ID       string
	Question string
	Answer   template.HTML
}

// categoryTitles maps category slugs to display headings.
var categoryTitles = map[string]string{
	faq.CategoryGettingStarted: "Getting Started",
	faq.CategoryLifeSituation:  "Your Life Situation",
	faq.CategoryUnderstanding:  "Understanding the Practice",
	faq.CategoryPractical:      "Practical Questions",
	faq.CategoryMoreHelp:       "More Help",
}

// handleFAQ handles GET /faq
// Renders the full accordion grouped by category, optionally filtered by ?q=.
func handleFAQ(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	matched := faq.Search(faq.Entries, query)

	var sections []faqSection
	for _, cat := range faq.ValidCategories {
		entries := faq.ByCategory(matched, cat)
		if len(entries) == 0 {
			continue
		}
		section := faqSection{Category: categoryTitles[cat]}
		for _, e := range entries {
			section.Entries = append(section.Entries, renderedEntry{
				ID:       e.ID,
				Question: e.Question,
				Answer:   renderMarkdown(e.Answer),
			})
		}
		sections = append(sections, section)
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "faq.html", map[string]any{
			"Sections": sections,
			"Query":    query,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if matched == nil {
		w.Write([]byte("[]"))
		return
	}
	json.NewEncoder(w).Encode(matched)
}
