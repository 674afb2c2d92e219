package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinepedia/cinepedia/internal/catalog"
	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/cinepedia/cinepedia/internal/notice"
	"github.com/cinepedia/cinepedia/internal/profile"
	"github.com/cinepedia/cinepedia/internal/search"
	"github.com/cinepedia/cinepedia/internal/settings"
	"github.com/cinepedia/cinepedia/internal/tui/components"
	"github.com/cinepedia/cinepedia/internal/tui/styles"
)

// ViewMode is the screen currently shown
type ViewMode int

const (
	ViewGallery ViewMode = iota
	ViewDetail
	ViewProfile
	ViewAdmin
)

// AdminTab is a page of the admin panel
type AdminTab int

const (
	TabOverview AdminTab = iota
	TabLibrary
	TabDatabase
	TabSystem
)

var adminTabNames = []string{"Analytics", "Library", "Database", "System"}

type modalPurpose int

const (
	modalNone modalPurpose = iota
	modalSearch
	modalLookup
	modalAnnounce
)

const suggestionLimit = 5

// Launcher opens a URL in an external player
type Launcher interface {
	Launch(url string) error
}

// Services bundles everything the TUI drives
type Services struct {
	Catalog     *catalog.Catalog
	Commands    *catalog.Commands
	Queries     *catalog.Queries
	Initializer *catalog.Initializer
	Profile     *profile.Service
	Settings    *settings.Service
	Notices     *notice.Center
	Launcher    Launcher
	SeedIDs     []string
	Credential  string
}

// Model is the main Bubble Tea model for the application
type Model struct {
	svc    Services
	keys   KeyMap
	help   help.Model
	theme  styles.Theme
	logger *slog.Logger

	// Application state
	Mode     ViewMode
	AdminTab AdminTab
	Ready    bool
	Loading  bool
	ShowHelp bool

	// Dimensions
	Width  int
	Height int

	// Gallery
	records   []domain.Record
	index     *search.Index
	results   []search.Result
	cursor    int
	filter    textinput.Model
	filtering bool

	// Detail
	detail  domain.Record
	session *profile.WatchSession

	// Admin
	adminCursor int
	preview     *domain.Record
	duplicates  []domain.Record

	modal    components.InputModal
	modalFor modalPurpose

	// Status
	syncStatus  domain.SyncStatus
	syncCh      chan domain.SyncStatus
	noticeCh    <-chan notice.Notice
	toasts      []notice.Notice
	StatusMsg   string
	StatusIsErr bool

	searchSeq    int
	cancelSearch context.CancelFunc
}

// NewModel creates the root model and subscribes it to sync and notice
// updates.
func NewModel(svc Services, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	syncCh := make(chan domain.SyncStatus, 16)
	svc.Catalog.Indicator().SetObserver(NewChannelObserver(syncCh))

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter titles"
	filter.CharLimit = 80

	return Model{
		svc:        svc,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		theme:      styles.ForTheme(svc.Settings.Theme()),
		logger:     logger,
		filter:     filter,
		modal:      components.NewInputModal(),
		syncStatus: svc.Catalog.Indicator().Status(),
		syncCh:     syncCh,
		noticeCh:   svc.Notices.Subscribe(),
		Loading:    true,
	}
}

// Init starts the catalog load and the background listeners
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		InitCatalogCmd(m.svc.Initializer),
		WaitForSyncCmd(m.syncCh),
		WaitForNoticeCmd(m.noticeCh),
	)
}

// Update handles incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case CatalogReadyMsg:
		m.Ready = true
		m.Loading = false
		if msg.Err != nil {
			m.setStatus("loading catalog failed: "+msg.Err.Error(), true)
		}
		m.refreshRecords()
		return m, nil

	case BatchFetchedMsg:
		m.Loading = false
		if msg.Err != nil {
			m.setStatus("sync failed: "+msg.Err.Error(), true)
		}
		m.refreshRecords()
		return m, nil

	case SearchDoneMsg:
		if msg.Seq != m.searchSeq {
			// superseded; the newer search owns Loading and cancelSearch
			return m, nil
		}
		m.Loading = false
		m.cancelSearch = nil
		switch {
		case errors.Is(msg.Err, context.DeadlineExceeded):
			m.setStatus("search timed out: "+msg.Query, true)
			return m, nil
		case errors.Is(msg.Err, context.Canceled), msg.Outcome.Stale:
			return m, nil
		}
		m.refreshRecords()
		m.cursor = 0
		return m, nil

	case LookupDoneMsg:
		m.Loading = false
		if msg.Err != nil || !msg.Found {
			m.preview = nil
			m.duplicates = nil
			return m, nil
		}
		rec := msg.Record
		m.preview = &rec
		m.duplicates = m.svc.Queries.FindByTitle(rec.Title)
		return m, nil

	case PlaybackStartedMsg:
		if msg.Err != nil {
			m.setStatus("playback: "+msg.Err.Error(), true)
		}
		return m, nil

	case SyncStatusMsg:
		m.syncStatus = msg.Status
		return m, WaitForSyncCmd(m.syncCh)

	case NoticeMsg:
		m.toasts = m.svc.Notices.Active(time.Now())
		return m, tea.Batch(
			WaitForNoticeCmd(m.noticeCh),
			ClearStatusCmd(m.svc.Notices.TTL()),
		)

	case ClearStatusMsg:
		m.toasts = m.svc.Notices.Active(msg.At)
		if len(m.toasts) == 0 {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case ErrMsg:
		m.Loading = false
		m.setStatus(msg.Error(), true)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.modal.IsVisible() {
		return m.updateModal(msg)
	}

	if m.filtering {
		return m.updateFilter(msg)
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Gallery):
		m.closeDetail()
		m.Mode = ViewGallery
		return m, nil
	case key.Matches(msg, m.keys.Profile):
		m.closeDetail()
		m.Mode = ViewProfile
		return m, nil
	case key.Matches(msg, m.keys.Admin):
		m.closeDetail()
		m.Mode = ViewAdmin
		return m, nil
	}

	switch m.Mode {
	case ViewGallery:
		return m.handleGalleryKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewProfile:
		return m.handleProfileKey(msg)
	case ViewAdmin:
		return m.handleAdminKey(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelSearch != nil {
		m.cancelSearch()
	}
	return m, tea.Quit
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Enter):
		if rec, ok := m.selected(); ok {
			m.openDetail(rec)
		}
	case key.Matches(msg, m.keys.Back):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Search):
		m.openModal(modalSearch, "Search OMDb", "title keywords", m.suggestSearches)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Refresh):
		return m.startBatch()
	case key.Matches(msg, m.keys.Watchlist):
		if rec, ok := m.selected(); ok {
			m.toggleWatch(rec)
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeDetail()
		m.Mode = ViewGallery
	case key.Matches(msg, m.keys.Play), key.Matches(msg, m.keys.Enter):
		if m.session != nil {
			return m, PlayCmd(m.session, m.svc.Launcher, m.detail)
		}
	case key.Matches(msg, m.keys.Watchlist):
		m.toggleWatch(m.detail)
	}
	return m, nil
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.Mode = ViewGallery
	case key.Matches(msg, m.keys.ClearHistory):
		if err := m.svc.Profile.ClearSearchHistory(); err != nil {
			m.setStatus(err.Error(), true)
		}
	}
	return m, nil
}

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.Mode = ViewGallery
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.AdminTab = (m.AdminTab + 1) % AdminTab(len(adminTabNames))
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.AdminTab = (m.AdminTab + AdminTab(len(adminTabNames)) - 1) % AdminTab(len(adminTabNames))
		return m, nil
	}

	switch m.AdminTab {
	case TabLibrary:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.adminCursor > 0 {
				m.adminCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.adminCursor < len(m.records)-1 {
				m.adminCursor++
			}
		case key.Matches(msg, m.keys.Lookup):
			m.openModal(modalLookup, "Fetch metadata by title", "e.g. The Matrix", nil)
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Add):
			if m.preview != nil {
				if err := m.svc.Commands.AddToLibrary(*m.preview); err != nil {
					m.setStatus(err.Error(), true)
				}
				m.preview = nil
				m.duplicates = nil
				m.refreshRecords()
			}
		case key.Matches(msg, m.keys.Delete):
			if m.adminCursor < len(m.records) {
				if err := m.svc.Commands.RemoveFromLibrary(m.records[m.adminCursor].ID); err != nil {
					m.setStatus(err.Error(), true)
				}
				m.refreshRecords()
			}
		}
	case TabDatabase:
		if key.Matches(msg, m.keys.Refresh) {
			return m.startBatch()
		}
	case TabSystem:
		switch {
		case key.Matches(msg, m.keys.Maintenance):
			if err := m.svc.Settings.SetMaintenance(!m.svc.Settings.Maintenance()); err != nil {
				m.setStatus(err.Error(), true)
			}
		case key.Matches(msg, m.keys.Announce):
			m.openModal(modalAnnounce, "Global announcement", "leave empty to clear", nil)
			m.modal.SetValue(m.svc.Settings.Announcement())
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.modal, cmd, submitted = m.modal.Update(msg)
	if !submitted {
		if !m.modal.IsVisible() {
			m.modalFor = modalNone
		}
		return m, cmd
	}

	value := m.modal.Value()
	purpose := m.modalFor
	m.modal.Hide()
	m.modalFor = modalNone

	switch purpose {
	case modalSearch:
		if value == "" {
			return m, nil
		}
		if m.cancelSearch != nil {
			m.cancelSearch()
		}
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		m.searchSeq++
		m.cancelSearch = cancel
		m.Loading = true
		m.filter.SetValue("")
		return m, SearchCmd(ctx, cancel, m.searchSeq, m.svc.Commands, value)
	case modalLookup:
		if value == "" {
			return m, nil
		}
		m.Loading = true
		return m, LookupTitleCmd(m.svc.Commands, value)
	case modalAnnounce:
		if err := m.svc.Settings.SetAnnouncement(value); err != nil {
			m.setStatus(err.Error(), true)
		}
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "up", "ctrl+p":
		m.moveCursor(-1)
		return m, nil
	case "down", "ctrl+n":
		m.moveCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) openModal(purpose modalPurpose, title, placeholder string, suggest components.SuggestFunc) {
	m.modalFor = purpose
	m.modal.Show(title, placeholder, suggest)
}

func (m Model) suggestSearches(input string) []string {
	return search.Suggest(input, m.svc.Profile.Profile().SearchHistory, suggestionLimit)
}

func (m Model) startBatch() (tea.Model, tea.Cmd) {
	if len(m.svc.SeedIDs) == 0 {
		return m, nil
	}
	m.Loading = true
	return m, FetchBatchCmd(m.svc.Commands, m.svc.SeedIDs)
}

func (m *Model) openDetail(rec domain.Record) {
	m.detail = rec
	m.session = m.svc.Profile.NewWatchSession(rec)
	m.Mode = ViewDetail
}

func (m *Model) closeDetail() {
	m.session = nil
}

func (m *Model) toggleWatch(rec domain.Record) {
	if _, err := m.svc.Profile.ToggleWatch(rec); err != nil {
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) cycleTheme() {
	current := m.svc.Settings.Theme()
	next := settings.Themes[0]
	for i, t := range settings.Themes {
		if t == current {
			next = settings.Themes[(i+1)%len(settings.Themes)]
			break
		}
	}
	if err := m.svc.Settings.SetTheme(next); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.theme = styles.ForTheme(next)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	if isErr {
		m.logger.Warn("tui error", "error", text)
	}
}

// refreshRecords re-reads the catalog and re-applies the local filter
func (m *Model) refreshRecords() {
	m.records = m.svc.Catalog.Records()
	m.index = search.NewIndex(m.records)
	m.applyFilter()
	if m.adminCursor >= len(m.records) {
		m.adminCursor = max(len(m.records)-1, 0)
	}
}

func (m *Model) applyFilter() {
	if m.index == nil {
		m.index = search.NewIndex(m.records)
	}
	m.results = m.index.Filter(m.filter.Value())
	if m.cursor >= len(m.results) {
		m.cursor = max(len(m.results)-1, 0)
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (domain.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return domain.Record{}, false
	}
	return m.results[m.cursor].Record, true
}
