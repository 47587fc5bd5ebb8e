package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"car-listings-viewer/internal/client"
	"car-listings-viewer/internal/model"
	"car-listings-viewer/internal/service"
)

type stubAPI struct{}

func (stubAPI) FetchListingsPage(ctx context.Context, page, pageSize int) (*model.ListingsPage, error) {
	res := &model.ListingsPage{Page: page, Limit: pageSize, Total: 25}
	for i := (page - 1) * pageSize; i < page*pageSize && i < 25; i++ {
		res.Listings = append(res.Listings, model.Listing{ID: fmt.Sprintf("id%d", i), Brand: "SEAT", Model: fmt.Sprintf("León %d", i), Dealer: "Motor Sur"})
	}
	return res, nil
}

func (stubAPI) FetchListingDetail(ctx context.Context, id string) (*model.ListingDetail, error) {
	if id != "id1" {
		return nil, fmt.Errorf("%w: %s", client.ErrNotFound, id)
	}
	return &model.ListingDetail{ID: id, Brand: "SEAT", Model: "León 1", Images: []model.Image{{URL: "http://api.test/a.jpg"}, {URL: "http://api.test/b.jpg"}}}, nil
}

func (stubAPI) FetchAnalysis(ctx context.Context) (*model.Analysis, error) {
	return nil, &client.NetworkError{StatusCode: 500}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	view := service.NewViewService(stubAPI{}, 20, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m := NewModel(context.Background(), view, "http://api.test", nil)
	if err := view.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return m
}

// press sends a key and runs the returned command synchronously.
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(Model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			if _, quit := msg.(tea.QuitMsg); !quit {
				next, _ = m.Update(msg)
				m = next.(Model)
			}
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Grid(t *testing.T) {
	m := newTestModel(t)
	out := m.View()

	if !strings.Contains(out, "Página 1 de 2") {
		t.Errorf("missing pager:\n%s", out)
	}
	if !strings.Contains(out, "> SEAT León 0") {
		t.Errorf("cursor should be on the first card:\n%s", out)
	}
	if !strings.Contains(out, "Imágenes procesadas: N/A") {
		t.Errorf("analysis should degrade to N/A:\n%s", out)
	}
}

func TestNavigatePages(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("n"))

	if got := m.view.Snapshot().Window.Page; got != 2 {
		t.Fatalf("page = %d, want 2", got)
	}
	if !strings.Contains(m.View(), "Página 2 de 2") {
		t.Errorf("pager not updated:\n%s", m.View())
	}

	m = press(t, m, runes("n"))
	if m.lastErr != nil {
		t.Errorf("next on the last page should be silent, got %v", m.lastErr)
	}
}

func TestSearch(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("/"))
	m = press(t, m, runes("león 1"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	snap := m.view.Snapshot()
	if snap.Term != "león 1" {
		t.Fatalf("term = %q", snap.Term)
	}
	// León 1 and León 10..19
	if len(snap.Items) != 11 {
		t.Errorf("items = %d, want 11", len(snap.Items))
	}
}

func TestOpenAndBrowseDetail(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.view.Snapshot().Detail.State; got != service.DetailLoaded {
		t.Fatalf("detail state = %v", got)
	}
	if out := m.View(); !strings.Contains(out, "[1 / 2] http://api.test/a.jpg") {
		t.Errorf("carousel missing:\n%s", out)
	}

	m = press(t, m, runes("l"))
	if out := m.View(); !strings.Contains(out, "[2 / 2] http://api.test/b.jpg") {
		t.Errorf("carousel did not advance:\n%s", out)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.view.Snapshot().Detail.State; got != service.DetailClosed {
		t.Errorf("detail state after esc = %v", got)
	}
}

func TestOpenMissingDetailShowsRetry(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	out := m.View()
	if !strings.Contains(out, "No se encontró el anuncio solicitado.") || !strings.Contains(out, "r reintentar") {
		t.Errorf("failed detail view:\n%s", out)
	}
}
