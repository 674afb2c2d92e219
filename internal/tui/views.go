package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/cinepedia/cinepedia/internal/search"
	"github.com/cinepedia/cinepedia/internal/tui/styles"
)

const (
	// header, banner and footer lines
	chromeHeight = 4
	minBodyRows  = 5
	detailWidth  = 72
)

// View renders the whole screen
func (m Model) View() string {
	if m.ShowHelp {
		return m.renderHelp()
	}

	sections := []string{m.renderHeader()}
	if text := m.svc.Settings.Announcement(); text != "" {
		sections = append(sections, m.theme.Banner.Render("» "+text))
	}

	body := m.renderBody()
	if m.modal.IsVisible() {
		body = m.place(m.modal.View(m.theme))
	}
	sections = append(sections, body)

	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) place(content string) string {
	if m.Width == 0 || m.Height == 0 {
		return content
	}
	return lipgloss.Place(m.Width, m.bodyRows(), lipgloss.Center, lipgloss.Center, content)
}

func (m Model) bodyRows() int {
	return max(m.Height-chromeHeight, minBodyRows)
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.Title.Render("CINEPEDIA")

	tabs := []struct {
		label string
		mode  ViewMode
	}{
		{"Gallery", ViewGallery},
		{"Profile", ViewProfile},
		{"Admin", ViewAdmin},
	}
	var rendered []string
	for _, tab := range tabs {
		active := m.Mode == tab.mode || (tab.mode == ViewGallery && m.Mode == ViewDetail)
		if active {
			rendered = append(rendered, t.ActiveTab.Render(tab.label))
		} else {
			rendered = append(rendered, t.InactiveTab.Render(tab.label))
		}
	}

	right := m.renderSyncStatus() + "  " + t.Dim.Render(t.Name)
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", strings.Join(rendered, ""), "  ", right)
}

func (m Model) renderSyncStatus() string {
	switch m.syncStatus {
	case domain.SyncSyncing:
		return lipgloss.NewStyle().Foreground(styles.Amber).Render("◌ syncing")
	case domain.SyncError:
		return m.theme.Error.Render("✕ sync error")
	default:
		return m.theme.Success.Render("● connected")
	}
}

func (m Model) renderBody() string {
	if !m.Ready {
		return m.place(m.theme.Dim.Render("Loading catalog..."))
	}

	// Maintenance hides the public screens; the admin panel stays usable
	if m.Mode != ViewAdmin && m.svc.Settings.Maintenance() {
		msg := lipgloss.JoinVertical(lipgloss.Center,
			m.theme.Title.Render("System Maintenance"),
			m.theme.Dim.Render("The gallery is temporarily unavailable."),
		)
		return m.place(m.theme.Panel.Render(msg))
	}

	switch m.Mode {
	case ViewDetail:
		return m.renderDetail()
	case ViewProfile:
		return m.renderProfile()
	case ViewAdmin:
		return m.renderAdmin()
	default:
		return m.renderGallery()
	}
}

func (m Model) renderGallery() string {
	t := m.theme
	var lines []string

	if m.filtering || m.filter.Value() != "" {
		lines = append(lines, m.filter.View())
	}

	if len(m.results) == 0 {
		empty := "No entries. Press s to search OMDb."
		if m.filter.Value() != "" {
			empty = "No titles match the filter."
		}
		return strings.Join(append(lines, t.Dim.Render(empty)), "\n")
	}

	rows := m.bodyRows() - len(lines)
	start, end := window(m.cursor, len(m.results), rows)
	watchlist := m.svc.Profile.Profile()
	width := max(m.Width-4, 20)

	for i := start; i < end; i++ {
		res := m.results[i]
		lines = append(lines, m.renderGalleryRow(res, i == m.cursor, watchlist.InWatchlist(res.Record.ID), width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGalleryRow(res search.Result, selected, watched bool, width int) string {
	t := m.theme
	rec := res.Record

	mark := "  "
	if watched {
		mark = "♥ "
	}
	if rec.DownloadURL != "" {
		mark += "⬇ "
	} else {
		mark += "  "
	}

	title := styles.Truncate(rec.Title, width/2)
	desc := rec.Description()

	base, match := t.NormalItem, t.Match
	if selected {
		base, match = t.SelectedItem, t.MatchOnSel
	}

	return base.Render(mark + highlight(title, res.MatchedIndexes, base.UnsetPadding(), match) + "  " + desc)
}

// highlight styles the matched byte offsets of s
func highlight(s string, matched []int, base, match lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(s)
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if set[i] {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// window returns the visible [start,end) range keeping cursor on screen
func window(cursor, total, rows int) (int, int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > total {
		start = total - rows
	}
	return start, start + rows
}

func (m Model) renderDetail() string {
	t := m.theme
	rec := m.detail
	p := m.svc.Profile.Profile()

	lines := []string{
		t.Title.Render(rec.Title),
		t.Subtitle.Render(rec.Description()),
		"",
	}

	field := func(label, value string) {
		if value == "" || value == "N/A" {
			return
		}
		lines = append(lines, t.Dim.Render(fmt.Sprintf("%-10s", label))+value)
	}
	field("Genre", rec.Genre)
	field("Director", rec.Director)
	field("Cast", rec.Actors)
	field("Votes", rec.Votes)
	field("Box office", rec.BoxOffice)

	if rec.Plot != "" && rec.Plot != "N/A" {
		lines = append(lines, "", lipgloss.NewStyle().Width(detailWidth).Render(rec.Plot))
	}

	lines = append(lines, "")
	if rec.VideoURL != "" {
		lines = append(lines, t.Dim.Render("Trailer   ")+t.Accent.Render(rec.VideoURL))
	}
	if rec.DownloadURL != "" {
		lines = append(lines, t.Dim.Render("Download  ")+t.Accent.Render(rec.DownloadURL))
	}

	lines = append(lines, "")
	if p.InWatchlist(rec.ID) {
		lines = append(lines, t.Success.Render("♥ In your collection"))
	}
	if m.session != nil && m.session.Started() {
		lines = append(lines, t.Badge.Render("NOW STREAMING"))
	}

	return t.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderProfile() string {
	t := m.theme
	p := m.svc.Profile.Profile()

	lines := []string{
		t.Title.Render(p.Name) + "  " + t.Badge.Render(fmt.Sprintf("LEVEL %d", p.Level)),
		t.RenderProgressBar(p.XPPercent(), 30) + t.Dim.Render(fmt.Sprintf(" %d / %d XP", p.XP, p.XPToNext)),
	}
	if len(p.Badges) > 0 {
		var badges []string
		for _, b := range p.Badges {
			badges = append(badges, t.Badge.Render(b))
		}
		lines = append(lines, strings.Join(badges, " "))
	}

	lines = append(lines, "", t.Accent.Render(fmt.Sprintf("Collection (%d)", len(p.Watchlist))))
	lines = append(lines, m.titleList(p.Watchlist, "Nothing saved yet. Press w on a title.")...)

	lines = append(lines, "", t.Accent.Render("Recently watched"))
	lines = append(lines, m.titleList(p.History, "No watch history.")...)

	lines = append(lines, "", t.Accent.Render("Timeline"))
	for _, item := range p.Timeline {
		lines = append(lines, "  "+item.Title+" "+t.Dim.Render(item.Meta))
	}

	lines = append(lines, "", t.Accent.Render("Recent searches")+t.Dim.Render("  (c to clear)"))
	if len(p.SearchHistory) == 0 {
		lines = append(lines, t.Dim.Render("  none"))
	}
	for _, q := range p.SearchHistory {
		lines = append(lines, "  "+q)
	}

	return t.Panel.Render(strings.Join(lines, "\n"))
}

// titleList resolves ids against the catalog, falling back to the raw id
func (m Model) titleList(ids []string, empty string) []string {
	if len(ids) == 0 {
		return []string{m.theme.Dim.Render("  " + empty)}
	}
	known := make(map[string]domain.Record)
	for _, r := range m.svc.Queries.ByIDs(ids) {
		known[r.ID] = r
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := known[id]; ok {
			out = append(out, "  "+r.Title+" "+m.theme.Dim.Render(r.Year))
		} else {
			out = append(out, "  "+m.theme.Dim.Render(id))
		}
	}
	return out
}

func (m Model) renderAdmin() string {
	t := m.theme
	var tabs []string
	for i, name := range adminTabNames {
		if AdminTab(i) == m.AdminTab {
			tabs = append(tabs, t.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, t.InactiveTab.Render(name))
		}
	}

	var content string
	switch m.AdminTab {
	case TabOverview:
		content = m.renderAdminOverview()
	case TabLibrary:
		content = m.renderAdminLibrary()
	case TabDatabase:
		content = m.renderAdminDatabase()
	case TabSystem:
		content = m.renderAdminSystem()
	}

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(tabs, ""), "", content)
}

func (m Model) renderAdminOverview() string {
	t := m.theme
	s := m.svc.Queries.Stats()

	lines := []string{
		fmt.Sprintf("%s %d", t.Dim.Render("Entries       "), s.Total),
		fmt.Sprintf("%s %d", t.Dim.Render("Rated         "), s.Rated),
		fmt.Sprintf("%s %.1f", t.Dim.Render("Avg rating    "), s.AverageRating),
		fmt.Sprintf("%s %d", t.Dim.Render("Downloadable  "), s.Downloadable),
	}

	types := make([]string, 0, len(s.ByType))
	for typ := range s.ByType {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		lines = append(lines, fmt.Sprintf("%s %d", t.Dim.Render(fmt.Sprintf("%-14s", typ)), s.ByType[typ]))
	}
	return t.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAdminLibrary() string {
	t := m.theme
	var lines []string

	if m.preview != nil {
		p := m.preview
		preview := []string{
			t.Title.Render(p.Title) + " " + t.Subtitle.Render(p.Description()),
			t.Dim.Render(p.ID) + "  " + t.Accent.Render(p.VideoURL),
		}
		if _, exists := m.svc.Catalog.Get(p.ID); exists {
			preview = append(preview, t.Error.Render("already in library; adding moves it to the front"))
		} else if len(m.duplicates) > 0 {
			preview = append(preview, t.Dim.Render(fmt.Sprintf("%d similar title(s) in library", len(m.duplicates))))
		}
		preview = append(preview, t.HelpKey.Render("a")+t.HelpDesc.Render(" add to library"))
		lines = append(lines, t.Panel.Render(strings.Join(preview, "\n")), "")
	}

	lines = append(lines, t.Dim.Render(fmt.Sprintf("%d entries  ·  f find title  ·  d delete", len(m.records))))
	rows := max(m.bodyRows()-len(lines)-4, 3)
	start, end := window(m.adminCursor, len(m.records), rows)
	for i := start; i < end; i++ {
		r := m.records[i]
		row := fmt.Sprintf("%-10s %s", r.ID, styles.Truncate(r.Title, 40))
		if i == m.adminCursor {
			lines = append(lines, t.SelectedItem.Render(row))
		} else {
			lines = append(lines, t.NormalItem.Render(row))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderAdminDatabase() string {
	t := m.theme
	cred := m.svc.Credential
	if cred == "" {
		cred = "(not configured)"
	}
	lines := []string{
		t.Dim.Render("Cluster   ") + cred,
		t.Dim.Render("Status    ") + m.renderSyncStatus(),
		t.Dim.Render("Entries   ") + fmt.Sprint(len(m.records)),
		"",
		t.HelpKey.Render("r") + t.HelpDesc.Render(" resync seed entries"),
	}
	return t.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAdminSystem() string {
	t := m.theme
	maint := t.Success.Render("off")
	if m.svc.Settings.Maintenance() {
		maint = t.Error.Render("ON")
	}
	announcement := m.svc.Settings.Announcement()
	if announcement == "" {
		announcement = t.Dim.Render("(none)")
	}

	lines := []string{
		t.Dim.Render("Maintenance   ") + maint,
		t.Dim.Render("Announcement  ") + announcement,
		t.Dim.Render("Theme         ") + t.Name,
		"",
		t.HelpKey.Render("m") + t.HelpDesc.Render(" toggle maintenance  ") +
			t.HelpKey.Render("n") + t.HelpDesc.Render(" edit announcement  ") +
			t.HelpKey.Render("t") + t.HelpDesc.Render(" next theme"),
	}
	return t.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	var lines []string
	for _, n := range m.toasts {
		style := m.theme.Info
		switch n.Severity {
		case domain.SeveritySuccess:
			style = m.theme.Success
		case domain.SeverityError:
			style = m.theme.Error
		}
		lines = append(lines, style.Render("▍"+n.Message))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return m.theme.Error.Render(m.StatusMsg)
		}
		return m.theme.Dim.Render(m.StatusMsg)
	}
	if m.Loading {
		return m.theme.Dim.Render("fetching...")
	}
	return m.help.View(m.keys)
}

func (m Model) renderHelp() string {
	m.help.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Keys"),
		"",
		m.help.View(m.keys),
		"",
		m.theme.Dim.Render("press any key to close"),
	)
	return m.theme.Modal.Render(content)
}
