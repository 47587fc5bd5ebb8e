// Package tui is a terminal renderer for the listings view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"car-listings-viewer/internal/render"
	"car-listings-viewer/internal/service"
)

type eventMsg service.Event

type actionDoneMsg struct {
	err error
}

// Subscribe forwards view events to a buffered channel. Events are dropped
// when the buffer is full; the next redraw reads the latest snapshot anyway.
func Subscribe(view *service.ViewService) (<-chan service.Event, func()) {
	events := make(chan service.Event, 32)
	cancel := view.Subscribe(func(e service.Event) {
		select {
		case events <- e:
		default:
		}
	})
	return events, cancel
}

type Model struct {
	ctx     context.Context
	view    *service.ViewService
	apiBase string
	events  <-chan service.Event

	cursor    int
	searching bool
	input     string
	lastErr   error
}

func NewModel(ctx context.Context, view *service.ViewService, apiBase string, events <-chan service.Event) Model {
	return Model{
		ctx:     ctx,
		view:    view,
		apiBase: apiBase,
		events:  events,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		m.action(m.view.Load),
		m.action(m.view.LoadAnalysis),
	)
}

func waitForEvent(events <-chan service.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

// action runs a blocking view operation off the UI loop.
func (m Model) action(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.clampCursor()
		return m, waitForEvent(m.events)

	case actionDoneMsg:
		switch {
		case msg.err == nil, errors.Is(msg.err, service.ErrSuperseded), errors.Is(msg.err, service.ErrPageOutOfRange):
			m.lastErr = nil
		default:
			m.lastErr = msg.err
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.view.Snapshot().Detail.State != service.DetailClosed {
			return m.updateDetail(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.cursor = 0
		m.view.SetSearchTerm(m.input)
	case tea.KeyEsc:
		m.searching = false
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "backspace":
		m.view.CloseDetail()
	case "left", "h":
		m.view.AdvanceImage(-1)
	case "right", "l":
		m.view.AdvanceImage(1)
	case "r":
		return m, m.action(m.view.RetryDetail)
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "right", "n":
		m.cursor = 0
		return m, m.action(m.view.NextPage)
	case "left", "p":
		m.cursor = 0
		return m, m.action(m.view.PrevPage)
	case "r":
		return m, m.action(m.view.Reload)
	case "/":
		m.searching = true
		m.input = m.view.Snapshot().Term
	case "enter":
		items := m.view.Snapshot().Items
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			return m, m.action(func(ctx context.Context) error {
				return m.view.OpenDetail(ctx, id)
			})
		}
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.view.Snapshot().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	snap := m.view.Snapshot()
	var b strings.Builder

	if snap.Detail.State != service.DetailClosed {
		writeDetail(&b, render.Detail(snap.Detail))
		return b.String()
	}

	page := render.Page(snap, m.apiBase)
	stats := render.Analysis(snap.Analysis, snap.AnalysisErr)

	fmt.Fprintf(&b, "Imágenes procesadas: %s · Peso medio: %s · Dimensiones medias: %s\n\n",
		stats.TotalImages, stats.AverageWeight, stats.AverageDimensions)

	if m.searching {
		fmt.Fprintf(&b, "Buscar: %s_\n\n", m.input)
	} else if page.Term != "" {
		fmt.Fprintf(&b, "Búsqueda: %q\n\n", page.Term)
	}

	if page.Error != "" {
		b.WriteString(page.Error + "\n\n")
	}
	if page.Message != "" {
		b.WriteString(page.Message + "\n")
	}
	for i, c := range page.Cards {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%-28s %14s %12s %6s  %s\n", marker, c.Title, c.Price, c.Mileage, c.Year, c.Dealer)
	}

	b.WriteString("\n" + pager(page.Pagination) + "\n")
	if m.lastErr != nil && page.Error == "" {
		fmt.Fprintf(&b, "%v\n", m.lastErr)
	}
	b.WriteString("↑/↓ elegir · enter detalles · ←/→ página · / buscar · r recargar · q salir\n")
	return b.String()
}

func pager(c render.Controls) string {
	prev, next := "‹ Anterior", "Siguiente ›"
	if !c.PrevEnabled {
		prev = strings.Repeat(" ", len([]rune(prev)))
	}
	if !c.NextEnabled {
		next = ""
	}
	return fmt.Sprintf("%s  Página %d de %d  %s", prev, c.CurrentPage, c.TotalPages, next)
}

func writeDetail(b *strings.Builder, d render.DetailView) {
	switch d.State {
	case service.DetailLoading.String():
		b.WriteString(render.MsgDetailLoading + "\n")
	case service.DetailFailed.String():
		b.WriteString(d.Notification + "\n\n")
		b.WriteString("r reintentar · esc cerrar\n")
	default:
		b.WriteString(d.Title + "\n\n")
		for _, f := range d.Fields {
			fmt.Fprintf(b, "%-18s %s\n", f.Label+":", f.Value)
		}
		if d.AdURL != "" {
			fmt.Fprintf(b, "\nAnuncio: %s\n", d.AdURL)
		}
		if d.TourURL != "" {
			fmt.Fprintf(b, "%s: %s\n", d.TourLabel, d.TourURL)
		}
		b.WriteString("\n")
		if d.Images.Message != "" {
			b.WriteString(d.Images.Message + "\n")
		} else {
			fmt.Fprintf(b, "[%s] %s\n", d.Images.Position, d.Images.URL)
		}
		b.WriteString("\n←/→ imágenes · esc cerrar\n")
	}
}
