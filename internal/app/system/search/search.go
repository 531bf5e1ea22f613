// Package search implements the free-text gig filter used on the performer
// dashboards, plus a fuzzy suggestion for queries that match nothing.
package search

import (
	"strings"

	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/hbollon/go-edlib"
)

// MatchGig reports whether the gig's name, event type, or details contain
// the query, case-insensitively. An empty query matches everything.
func MatchGig(g models.Gig, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(g.GigName), q) ||
		strings.Contains(strings.ToLower(g.TypeName), q) ||
		strings.Contains(strings.ToLower(g.GigDetails), q)
}

// FilterGigs returns the gigs matching the query, preserving order.
func FilterGigs(gigs []models.Gig, query string) []models.Gig {
	if strings.TrimSpace(query) == "" {
		return gigs
	}
	out := make([]models.Gig, 0, len(gigs))
	for _, g := range gigs {
		if MatchGig(g, query) {
			out = append(out, g)
		}
	}
	return out
}

// Suggest returns the candidate most similar to the query, for a
// "did you mean" hint when a search comes back empty. Candidates below the
// similarity threshold yield "".
func Suggest(query string, candidates []string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}

	best := ""
	bestScore := float32(0)
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(q, strings.ToLower(c), edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore < 0.5 {
		return ""
	}
	return best
}
