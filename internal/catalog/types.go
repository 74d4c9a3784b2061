package catalog

import (
	"strconv"
	"strings"
)

// Summary is the minimal shape returned by a catalog search, just enough
// to drive a result list and the follow-up detail fetch.
type Summary struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
}

// Detail is a normalized detail fetch result. Authors and genres are
// already flattened to display strings by the client.
type Detail struct {
	ExternalID    string   `json:"external_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Genres        []string `json:"genres"`
	CoverImageURL string   `json:"cover_image_url"`
}

// Wire types matching the MAL v2 response envelopes.

type picture struct {
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type searchEntry struct {
	Node struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"node"`
}

type searchResponse struct {
	Data []searchEntry `json:"data"`
}

type genreEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type authorEntry struct {
	Node struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Name      string `json:"name"`
	} `json:"node"`
	Role string `json:"role"`
}

type detailResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	MainPicture *picture      `json:"main_picture"`
	Genres      []genreEntry  `json:"genres"`
	Authors     []authorEntry `json:"authors"`
}

func (r *searchResponse) summaries() []Summary {
	out := make([]Summary, 0, len(r.Data))
	for _, e := range r.Data {
		out = append(out, Summary{
			ExternalID: strconv.FormatInt(e.Node.ID, 10),
			Title:      e.Node.Title,
		})
	}
	return out
}

// normalize flattens the nested detail payload into a Detail.
func (r *detailResponse) normalize() Detail {
	return Detail{
		ExternalID:    strconv.FormatInt(r.ID, 10),
		Title:         r.Title,
		Authors:       normalizeAuthors(r.Authors),
		Genres:        normalizeGenres(r.Genres),
		CoverImageURL: resolveCover(r.MainPicture),
	}
}

// normalizeAuthors builds display names from raw author entries.
// A pre-joined name wins when present; otherwise first and last names are
// trimmed and joined with a single space, and an entry with neither half
// is dropped entirely.
func normalizeAuthors(entries []authorEntry) []string {
	var names []string
	for _, e := range entries {
		if e.Node.Name != "" {
			names = append(names, e.Node.Name)
			continue
		}
		first := strings.TrimSpace(e.Node.FirstName)
		last := strings.TrimSpace(e.Node.LastName)
		var parts []string
		if first != "" {
			parts = append(parts, first)
		}
		if last != "" {
			parts = append(parts, last)
		}
		if len(parts) == 0 {
			continue
		}
		names = append(names, strings.Join(parts, " "))
	}
	return names
}

func normalizeGenres(entries []genreEntry) []string {
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// resolveCover prefers the large picture variant, matching what the
// library stores for imported records.
func resolveCover(p *picture) string {
	if p == nil {
		return ""
	}
	if p.Large != "" {
		return p.Large
	}
	return p.Medium
}
