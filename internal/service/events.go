package service

import "sync"

// EventKind tells a subscriber which part of the view changed.
type EventKind int

const (
	// EventPage covers the card grid, pagination controls and page errors.
	EventPage EventKind = iota
	// EventDetail covers the whole detail view.
	EventDetail
	// EventImage covers only the carousel image pane.
	EventImage
	// EventAnalysis covers the image statistics panel.
	EventAnalysis
)

func (k EventKind) String() string {
	switch k {
	case EventPage:
		return "page"
	case EventDetail:
		return "detail"
	case EventImage:
		return "image"
	case EventAnalysis:
		return "analysis"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the state it describes changed.
type Event struct {
	Kind EventKind
}

type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

func newHub() *hub {
	return &hub{subs: make(map[int]func(Event))}
}

// subscribe registers fn and returns a function that cancels the
// subscription. Cancelling more than once is harmless.
func (h *hub) subscribe(fn func(Event)) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// publish calls every subscriber. It must not be called with a state lock
// held, since subscribers usually read a snapshot.
func (h *hub) publish(e Event) {
	h.mu.Lock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
