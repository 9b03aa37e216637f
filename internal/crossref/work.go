// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"encoding/json"
	"strings"
)

// Work is a Crossref works item restricted to the selected fields.
type Work struct {
	DOI       string          `json:"DOI"`
	Title     Titles          `json:"title"`
	Author    []Author        `json:"author"`
	Issued    PartialDate     `json:"issued"`
	Abstract  string          `json:"abstract"`
	URL       string          `json:"URL"`
	Publisher string          `json:"publisher"`
	Score     json.RawMessage `json:"score"`
}

// Author is one contributor entry.
type Author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

// DisplayName joins the given and family names, falling back to the
// organisational name.
func (a Author) DisplayName() string {
	var parts []string
	for _, p := range []string{a.Given, a.Family} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(a.Name)
	}
	return strings.Join(parts, " ")
}

// Titles accepts Crossref's title array as well as a bare string.
type Titles []string

func (t *Titles) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Titles{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

// First returns the first title or "".
func (t Titles) First() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// PartialDate is Crossref's {"date-parts": [[year, month, day]]} shape.
// Any component may be null.
type PartialDate struct {
	DateParts [][]*int `json:"date-parts"`
}

// Year returns the first date-part's year, or 0 when absent.
func (d PartialDate) Year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 || d.DateParts[0][0] == nil {
		return 0
	}
	return *d.DateParts[0][0]
}

// RelevanceScore returns the item's numeric score. The second value is
// false when the score is absent or not a number.
func (w Work) RelevanceScore() (float64, bool) {
	if len(w.Score) == 0 || string(w.Score) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(w.Score, &f); err != nil {
		return 0, false
	}
	return f, true
}
