package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/cinepedia/cinepedia/internal/tui/styles"
)

func (a *app) theme() styles.Theme {
	return styles.ForTheme(a.settings.Theme())
}

// printNotices flushes the notices raised by the last command
func (a *app) printNotices(w io.Writer) {
	t := a.theme()
	for _, n := range a.notices.Active(time.Now()) {
		style := t.Info
		switch n.Severity {
		case domain.SeveritySuccess:
			style = t.Success
		case domain.SeverityError:
			style = t.Error
		}
		fmt.Fprintln(w, style.Render(n.Message))
		a.notices.Dismiss(n.ID)
	}
}

func (a *app) printRecords(w io.Writer, records []domain.Record) {
	t := a.theme()
	if len(records) == 0 {
		fmt.Fprintln(w, t.Dim.Render("no records"))
		return
	}
	p := a.profile.Profile()
	for _, r := range records {
		mark := " "
		if p.InWatchlist(r.ID) {
			mark = "♥"
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n", mark, t.Dim.Render(fmt.Sprintf("%-10s", r.ID)), t.Title.Render(r.Title), t.Subtitle.Render(r.Description()))
	}
}

func (a *app) printRecord(w io.Writer, r domain.Record) {
	t := a.theme()
	fmt.Fprintln(w, t.Title.Render(r.Title), t.Subtitle.Render(r.Description()))
	for _, f := range [][2]string{
		{"ID", r.ID},
		{"Genre", r.Genre},
		{"Director", r.Director},
		{"Cast", r.Actors},
		{"Box office", r.BoxOffice},
		{"Trailer", r.VideoURL},
	} {
		if f[1] != "" && f[1] != "N/A" {
			fmt.Fprintf(w, "%s %s\n", t.Dim.Render(fmt.Sprintf("%-10s", f[0])), f[1])
		}
	}
	if r.Plot != "" && r.Plot != "N/A" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.Plot)
	}
}

func (a *app) printProfile(w io.Writer) {
	t := a.theme()
	p := a.profile.Profile()

	fmt.Fprintf(w, "%s  %s\n", t.Title.Render(p.Name), t.Badge.Render(fmt.Sprintf("LEVEL %d", p.Level)))
	fmt.Fprintf(w, "%s %d / %d XP\n", t.RenderProgressBar(p.XPPercent(), 30), p.XP, p.XPToNext)

	watchlist := a.profile.Watchlist()
	fmt.Fprintln(w, t.Accent.Render(fmt.Sprintf("\nCollection (%d)", len(watchlist))))
	for _, r := range a.queries.ByIDs(watchlist) {
		fmt.Fprintf(w, "  %s %s\n", r.Title, t.Dim.Render(r.Year))
	}

	fmt.Fprintln(w, t.Accent.Render("\nRecently watched"))
	for _, r := range a.queries.ByIDs(p.History) {
		fmt.Fprintf(w, "  %s %s\n", r.Title, t.Dim.Render(r.Year))
	}

	fmt.Fprintln(w, t.Accent.Render("\nRecent searches"))
	for _, q := range p.SearchHistory {
		fmt.Fprintln(w, "  "+q)
	}
}
