package tui

import (
	clist "container/list"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"stylebook/internal/content"
	"stylebook/internal/logging"
	"stylebook/internal/tui/styles"
)

type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Quit         key.Binding
	Filter       key.Binding
	Refresh      key.Binding
	ToggleFormat key.Binding
	FocusLeft    key.Binding
	FocusRight   key.Binding
}

// focusedPane identifies which pane (list or preview) has keyboard focus
type focusedPane int

const (
	focusList focusedPane = iota
	focusPreview
)

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
		Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		ToggleFormat: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "toggle format")),
		FocusLeft:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "focus list")),
		FocusRight:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "focus preview")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Refresh, k.ToggleFormat, k.FocusRight, k.FocusLeft, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter, k.Refresh, k.ToggleFormat, k.FocusRight, k.FocusLeft, k.Quit},
	}
}

type entryKind int

const (
	entryStandard entryKind = iota
	entryExample
)

// browseItem is one selectable row: a standards document or a code
// example. The group is what the second list line shows ("standard" or
// the category name).
type browseItem struct {
	kind     entryKind
	group    string
	name     string
	id       string // standard identifier, unused for examples
	category content.Category
}

func (i browseItem) Title() string       { return i.name }
func (i browseItem) Description() string { return i.group }
func (i browseItem) FilterValue() string { return i.name + " " + i.group }

// key uniquely identifies the item in the preview cache. Standard
// identifiers and per-category example stems are both unique.
func (i browseItem) key() string { return i.group + "/" + i.name }

type (
	// entriesLoadedMsg carries a fresh listing of the content tree.
	// Per-source failures are logged and degrade to fewer entries
	// rather than failing the whole browser.
	entriesLoadedMsg struct {
		items []browseItem
	}

	// internal: sent after a debounce period to trigger preview
	debouncedPreviewMsg struct {
		itemKey string
		seq     uint64
	}

	// previewReadyMsg is a finished render with its request ID
	previewReadyMsg struct {
		content  string
		itemKey  string
		renderID uint64
		cacheKey string
	}

	previewErrorMsg struct {
		err      error
		itemKey  string
		renderID uint64
	}
)

// lruEntry represents a single cache item
type lruEntry struct {
	key     string
	content string
	size    int
}

// lruCache is a simple LRU cache with a byte capacity cap.
// It evicts least-recently-used entries until under capacity.
type lruCache struct {
	capacityBytes int
	currentBytes  int
	ll            *clist.List
	items         map[string]*clist.Element
}

func newLRU(capacity int) *lruCache {
	return &lruCache{
		capacityBytes: capacity,
		ll:            clist.New(),
		items:         make(map[string]*clist.Element),
	}
}

func (c *lruCache) Get(key string) (string, bool) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*lruEntry).content, true
	}
	return "", false
}

func (c *lruCache) Add(key string, content string) {
	size := len(content)
	// Skip caching entries larger than total capacity
	if size > c.capacityBytes {
		return
	}
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*lruEntry)
		c.currentBytes += size - ent.size
		ent.content = content
		ent.size = size
		c.ll.MoveToFront(el)
	} else {
		el := c.ll.PushFront(&lruEntry{key: key, content: content, size: size})
		c.items[key] = el
		c.currentBytes += size
	}
	// Evict until under capacity
	for c.currentBytes > c.capacityBytes && c.ll.Len() > 0 {
		tail := c.ll.Back()
		ent := tail.Value.(*lruEntry)
		delete(c.items, ent.key)
		c.ll.Remove(tail)
		c.currentBytes -= ent.size
	}
}

func (c *lruCache) Clear() {
	c.ll.Init()
	c.items = make(map[string]*clist.Element)
	c.currentBytes = 0
}

// detectGlamourStyle attempts to detect the terminal background using
// termenv, but respects GLAMOUR_STYLE when set to a concrete value (not
// "auto"). A timeout ensures we never hang on terminals that don't
// respond to the query.
func detectGlamourStyle(timeout time.Duration) string {
	defaultStyle := "dark"

	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return defaultStyle
	}
}

// Browser is the two-pane catalog browser: standards documents and code
// examples on the left, a preview of the selection on the right.
type Browser struct {
	logger  *logging.AppLogger
	library *content.Library

	title     string
	subtitle  string
	entryList list.Model
	keys      KeyMap
	viewport  viewport.Model
	help      help.Model
	layout    LayoutModel

	windowWidth  int
	windowHeight int

	loaded  bool // first entriesLoadedMsg arrived
	entries []browseItem

	// Loading state management
	isLoading            bool
	loadingKey           string
	currentRenderID      uint64 // tracks the latest applied render
	renderCounter        uint64 // atomic counter for render requests
	contentCache         *lruCache
	contentCacheCapBytes int

	// Debounce and preview controls
	debounceDuration  time.Duration
	pendingDebounceID uint64

	// Preview options
	useGlamour   bool
	glamourStyle string

	// focus management
	focusPane focusedPane
}

func NewBrowser(library *content.Library, ctx UIContext) *Browser {
	entryList := list.New(nil, list.NewDefaultDelegate(), ctx.Width, ctx.Height)
	entryList.Title = "Catalog"
	entryList.SetShowStatusBar(false)
	entryList.SetFilteringEnabled(true)
	entryList.SetShowHelp(false)

	vp := viewport.New(ctx.Width, ctx.Height)
	vp.MouseWheelEnabled = true

	layout := NewLayout(LayoutConfig{
		Title:    "📚 Stylebook",
		Subtitle: library.ContentDir(),
		HelpText: "r to reload • q to quit",
	})

	return &Browser{
		logger:               ctx.Logger,
		library:              library,
		title:                "📚 Stylebook",
		subtitle:             library.ContentDir(),
		entryList:            entryList,
		keys:                 DefaultKeyMap(),
		viewport:             vp,
		help:                 help.New(),
		layout:               layout,
		windowWidth:          ctx.Width,
		windowHeight:         ctx.Height,
		contentCacheCapBytes: 1 << 20, // 1 MiB cap
		contentCache:         newLRU(1 << 20),
		debounceDuration:     200 * time.Millisecond,
		useGlamour:           true,
		focusPane:            focusList,
	}
}

func (b *Browser) Init() tea.Cmd {
	// Detect the glamour style once (with timeout and env override) to
	// avoid repeated OSC queries during rendering.
	if b.glamourStyle == "" {
		b.glamourStyle = detectGlamourStyle(50 * time.Millisecond)
		b.logger.Debug("Glamour style selected", "style", b.glamourStyle)
	}

	return b.loadEntries()
}

// loadEntries re-walks the content tree and rebuilds the listing:
// standards documents first, then code examples in the fixed category
// order. A missing standards directory or empty category shrinks the
// listing instead of failing it.
func (b *Browser) loadEntries() tea.Cmd {
	return func() tea.Msg {
		var items []browseItem

		standards, err := b.library.Standards()
		if err != nil {
			b.logger.Warn("Standards unavailable for browsing", "error", err)
		}
		for _, std := range standards {
			items = append(items, browseItem{
				kind:  entryStandard,
				group: "standard",
				name:  std.Title,
				id:    std.ID,
			})
		}

		catalog := b.library.Catalog()
		for _, entry := range catalog.Entries {
			for _, name := range entry.Items {
				items = append(items, browseItem{
					kind:     entryExample,
					group:    string(entry.Category),
					name:     name,
					category: entry.Category,
				})
			}
		}

		return entriesLoadedMsg{items: items}
	}
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	// The currently selected item key before any updates
	oldSelectedKey := ""
	if item, ok := b.entryList.SelectedItem().(browseItem); ok {
		oldSelectedKey = item.key()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.windowWidth = msg.Width
		b.windowHeight = msg.Height
		b.help.Width = msg.Width
		b.layout, _ = b.layout.Update(msg)

		// Compute frame sizes from the final pane style to avoid clipping.
		frameW, frameH := styles.PaneStyle.GetFrameSize()
		totalExtras := frameW * 2

		// Small left margin for the panes container to align with the
		// header and help lines
		const mainLeftMargin = 1
		avail := max(msg.Width-totalExtras-mainLeftMargin, 0)

		listWidth := avail / 3
		vpWidth := avail - listWidth

		if listWidth < 20 {
			listWidth = 20
		}
		if vpWidth < 30 {
			vpWidth = 30
		}

		// Measure header and help with the same styles View uses so the
		// measured height matches the rendered height.
		headerView := styles.HeaderContainerStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			styles.TitleStyle.Render(b.title),
			styles.SubtitleStyle.Render(b.subtitle),
		))
		helpView := styles.HelpContainerStyle.Render(styles.HelpStyle.Render(b.help.View(b.keys)))

		contentHeight := max(msg.Height-lipgloss.Height(headerView)-lipgloss.Height(helpView)-frameH, 5)

		b.entryList.SetSize(listWidth, contentHeight)
		b.viewport.Width = vpWidth
		b.viewport.Height = contentHeight

		b.logger.Debug("Window resized", "width", msg.Width, "height", msg.Height, "list_width", listWidth, "viewport_width", vpWidth)
		return b, nil

	case tea.MouseMsg:
		// Always let the viewport handle mouse events (wheel scrolling)
		var vpcmd tea.Cmd
		b.viewport, vpcmd = b.viewport.Update(msg)
		if vpcmd != nil {
			cmds = append(cmds, vpcmd)
		}
		return b, tea.Batch(cmds...)

	case list.FilterMatchesMsg:
		b.entryList, cmd = b.entryList.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return b, tea.Batch(cmds...)

	case entriesLoadedMsg:
		b.loaded = true
		b.entries = msg.items
		items := make([]list.Item, len(msg.items))
		for i, it := range msg.items {
			items[i] = it
		}
		b.entryList.SetItems(items)
		b.entryList.ResetSelected()
		b.viewport.GotoTop()
		b.contentCache.Clear()
		b.logger.Debug("Catalog entries loaded", "count", len(msg.items))

		if len(items) > 0 {
			first := msg.items[0]
			cmds = append(cmds, b.scheduleDebouncedPreview(first))
		}
		return b, tea.Batch(cmds...)

	case previewReadyMsg:
		// Always cache regardless of staleness
		b.contentCache.Add(msg.cacheKey, msg.content)

		// Only display when the render is for the current selection and
		// not outdated by a newer request
		if msg.itemKey == oldSelectedKey && msg.renderID >= b.currentRenderID {
			b.currentRenderID = msg.renderID
			b.viewport.SetContent(msg.content)
			b.viewport.GotoTop()
			b.isLoading = false
			b.loadingKey = ""
		} else {
			b.logger.Debug("Preview cached but not displayed",
				"item", msg.itemKey,
				"renderID", msg.renderID,
				"selected", oldSelectedKey)
		}
		return b, nil

	case previewErrorMsg:
		if msg.itemKey == oldSelectedKey && msg.renderID >= b.currentRenderID {
			b.currentRenderID = msg.renderID
			b.logger.Error("Preview failed", "item", msg.itemKey, "error", msg.err)
			b.viewport.SetContent(fmt.Sprintf("Could not load %s: %v", msg.itemKey, msg.err))
			b.isLoading = false
			b.loadingKey = ""
		}
		return b, nil

	case debouncedPreviewMsg:
		// Only render when this is the latest scheduled preview and the
		// selection still matches
		if msg.seq != atomic.LoadUint64(&b.pendingDebounceID) {
			return b, nil
		}
		item, ok := b.entryList.SelectedItem().(browseItem)
		if !ok || item.key() != msg.itemKey {
			return b, nil
		}

		if cached, ok := b.contentCache.Get(b.cacheKey(item)); ok {
			b.viewport.SetContent(cached)
			b.viewport.GotoTop()
			b.isLoading = false
			b.loadingKey = ""
			return b, nil
		}
		return b, b.renderPreview(item)

	case tea.KeyMsg:
		// While a filter is being typed or applied, ESC backs out of the
		// filter rather than the browser.
		if msg.String() == "esc" && b.entryList.FilterState() != list.Unfiltered {
			b.entryList, cmd = b.entryList.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return b, tea.Batch(cmds...)
		}

		// Focus switching
		if key.Matches(msg, b.keys.FocusRight) {
			b.focusPane = focusPreview
			return b, nil
		}
		if key.Matches(msg, b.keys.FocusLeft) {
			b.focusPane = focusList
			return b, nil
		}

		// When the preview has focus, route scroll keys to the viewport
		if b.focusPane == focusPreview {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown", "ctrl+u", "ctrl+d", "home", "end", "k", "j":
				var vcmd tea.Cmd
				b.viewport, vcmd = b.viewport.Update(msg)
				if vcmd != nil {
					cmds = append(cmds, vcmd)
				}
				return b, tea.Batch(cmds...)
			}
		}

		switch {
		case key.Matches(msg, b.keys.Quit):
			// A plain q during filter entry is filter text, not a quit
			if msg.String() == "q" && b.entryList.FilterState() == list.Filtering {
				break
			}
			return b, tea.Quit

		case key.Matches(msg, b.keys.Refresh):
			if b.entryList.FilterState() == list.Filtering {
				break
			}
			b.logger.Debug("Reloading catalog entries")
			return b, b.loadEntries()

		case key.Matches(msg, b.keys.ToggleFormat):
			if b.entryList.FilterState() == list.Filtering {
				break
			}
			b.useGlamour = !b.useGlamour
			if item, ok := b.entryList.SelectedItem().(browseItem); ok {
				if cached, ok := b.contentCache.Get(b.cacheKey(item)); ok {
					b.viewport.SetContent(cached)
					b.viewport.GotoTop()
					return b, nil
				}
				b.isLoading = true
				b.loadingKey = item.key()
				b.viewport.SetContent("📄 Rendering " + item.name + "...")
				return b, b.renderPreview(item)
			}
			return b, nil
		}

		// Forward everything else to the list (navigation and filtering)
		prev := b.entryList.FilterState()
		b.entryList, cmd = b.entryList.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		// If filtering just ended, preview the landing selection
		if prev == list.Filtering && b.entryList.FilterState() != list.Filtering {
			if item, ok := b.entryList.SelectedItem().(browseItem); ok {
				cmds = append(cmds, b.scheduleDebouncedPreview(item))
			}
		}

		newSelectedKey := ""
		var newSelected browseItem
		if item, ok := b.entryList.SelectedItem().(browseItem); ok {
			newSelectedKey = item.key()
			newSelected = item
		}

		if newSelectedKey != "" && newSelectedKey != oldSelectedKey {
			// Don't preview mid-filter; the filter-end branch covers it
			if b.entryList.FilterState() != list.Filtering {
				if cached, ok := b.contentCache.Get(b.cacheKey(newSelected)); ok {
					b.viewport.SetContent(cached)
					b.viewport.GotoTop()
					b.isLoading = false
					b.loadingKey = ""
				} else {
					// Debounce so scrolling doesn't spam renders
					cmds = append(cmds, b.scheduleDebouncedPreview(newSelected))
				}
			}
		}

		return b, tea.Batch(cmds...)
	}

	return b, tea.Batch(cmds...)
}

func (b *Browser) View() string {
	if b.loaded && len(b.entries) == 0 {
		b.layout = b.layout.SetConfig(LayoutConfig{
			Title:    b.title,
			Subtitle: b.subtitle,
			HelpText: "r to reload • q to quit",
		})
		return b.layout.Render("No standards or code examples found.\n\n" +
			"Run 'stylebook init' to scaffold starter content, or 'stylebook sync' to fetch the configured repository.")
	}

	header := styles.HeaderContainerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		styles.TitleStyle.Render(b.title),
		styles.SubtitleStyle.Render(b.subtitle),
	))

	// Focus-aware pane styles
	listStyle := styles.PaneStyle
	vpStyle := styles.PaneStyle
	switch b.focusPane {
	case focusList:
		listStyle = styles.PaneFocusedStyle
	case focusPreview:
		vpStyle = styles.PaneFocusedStyle
	}

	listStyle = listStyle.Width(b.entryList.Width()).Height(b.entryList.Height())
	vpStyle = vpStyle.Width(b.viewport.Width).Height(b.viewport.Height)

	panes := styles.MainContainerStyle.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		listStyle.Render(b.entryList.View()),
		vpStyle.Render(b.viewport.View()),
	))

	helpView := styles.HelpContainerStyle.Render(styles.HelpStyle.Render(b.help.View(b.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, helpView)
}

//  HELPERS / COMMANDS

// cacheKey composes a cache key from the item identity and the render
// mode it would be drawn with right now.
func (b *Browser) cacheKey(item browseItem) string {
	if b.glamourOn(item) {
		return item.key() + "|glamour"
	}
	return item.key() + "|plain"
}

// glamourOn reports whether the item would render through glamour:
// markdown formatting applies to standards documents, never to code.
func (b *Browser) glamourOn(item browseItem) bool {
	return b.useGlamour && item.kind == entryStandard
}

func (b *Browser) scheduleDebouncedPreview(item browseItem) tea.Cmd {
	b.isLoading = true
	b.loadingKey = item.key()
	b.viewport.SetContent("📄 Loading " + item.name + "...")
	seq := atomic.AddUint64(&b.pendingDebounceID, 1)
	itemKey := item.key()
	return tea.Tick(b.debounceDuration, func(time.Time) tea.Msg {
		return debouncedPreviewMsg{itemKey: itemKey, seq: seq}
	})
}

// renderPreview resolves the item through the library and renders it for
// the viewport: glamour for standards, plain text for code examples.
// The width and format are captured here so the worker goroutine never
// reads model state.
func (b *Browser) renderPreview(item browseItem) tea.Cmd {
	renderID := atomic.AddUint64(&b.renderCounter, 1)
	glamourOn := b.glamourOn(item)
	glamourStyle := b.glamourStyle
	cacheKey := b.cacheKey(item)
	vpWidth := b.viewport.Width - 2
	if vpWidth <= 0 {
		vpWidth = 80
	}

	return func() tea.Msg {
		var text string
		switch item.kind {
		case entryStandard:
			res, err := b.library.ResolveStandard(item.id)
			if err != nil {
				return previewErrorMsg{err: err, itemKey: item.key(), renderID: renderID}
			}
			text = res.Content
		case entryExample:
			res, err := b.library.Resolve(item.category, item.name)
			if err != nil {
				return previewErrorMsg{err: err, itemKey: item.key(), renderID: renderID}
			}
			text = res.Content
		}

		rendered := text
		if glamourOn {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(glamourStyle),
				glamour.WithWordWrap(vpWidth),
			)
			if err != nil {
				return previewErrorMsg{err: err, itemKey: item.key(), renderID: renderID}
			}
			rendered, err = renderer.Render(text)
			if err != nil {
				return previewErrorMsg{err: err, itemKey: item.key(), renderID: renderID}
			}
		}

		return previewReadyMsg{content: rendered, itemKey: item.key(), renderID: renderID, cacheKey: cacheKey}
	}
}
