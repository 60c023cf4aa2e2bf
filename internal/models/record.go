// Package models defines core data structures for scraped records, chunks, and answers.
package models

import "strings"

// FullWidthComma replaces literal commas in CSV text fields.
const FullWidthComma = "，"

// Record is one heading + paragraph pair extracted from a commentary page.
type Record struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// CSVHeader is the header row of the scraped records artifact.
var CSVHeader = []string{"title", "text", "url"}

// Fields returns the record as a CSV row. Literal commas in title and text are
// replaced with the full-width comma so every row has exactly three fields.
func (r Record) Fields() []string {
	return []string{EscapeCommas(r.Title), EscapeCommas(r.Text), r.URL}
}

// EscapeCommas replaces every "," with a full-width comma.
func EscapeCommas(s string) string {
	return strings.ReplaceAll(s, ",", FullWidthComma)
}
