package catalog

import (
	"net/url"
	"strings"

	"github.com/cinepedia/cinepedia/internal/domain"
)

// LinkPolicy derives the trailer and download references of a record
type LinkPolicy struct {
	TrailerSearchURL  string  // prefix; the escaped keywords are appended
	DownloadURL       string  // fixed placeholder resource
	DownloadMinRating float64 // rating must be strictly above this
}

// VideoURL returns the trailer search link for title and year
func (p LinkPolicy) VideoURL(title, year string) string {
	return p.TrailerSearchURL + escapeComponent(title+" "+year+" official trailer")
}

// Apply sets the derived references on rec. Download references are only
// granted when allowDownload is set and the rating clears the threshold.
func (p LinkPolicy) Apply(rec domain.Record, allowDownload bool) domain.Record {
	rec.VideoURL = p.VideoURL(rec.Title, rec.Year)
	rec.DownloadURL = ""
	if allowDownload {
		if v, ok := rec.NumericRating(); ok && v > p.DownloadMinRating {
			rec.DownloadURL = p.DownloadURL
		}
	}
	return rec
}

// componentReplacer undoes the QueryEscape choices that differ from URI
// component escaping: spaces as %20 and a few marks left literal.
var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes s for use inside a URL component
func escapeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}
