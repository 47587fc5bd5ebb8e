package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"car-listings-viewer/internal/model"
)

var (
	// ErrDetailNotClosed is returned by Open while a detail is shown or loading.
	ErrDetailNotClosed = errors.New("detail view is not closed")
	// ErrNothingToRetry is returned by Retry outside the failed state.
	ErrNothingToRetry = errors.New("detail view has not failed")
	// ErrEmptyID is returned by Open for a blank listing id.
	ErrEmptyID = errors.New("empty listing id")
)

// DetailState is the lifecycle of the detail view:
// Closed -> Loading -> (Loaded | Failed) -> Closed.
type DetailState int

const (
	DetailClosed DetailState = iota
	DetailLoading
	DetailLoaded
	DetailFailed
)

func (s DetailState) String() string {
	switch s {
	case DetailClosed:
		return "closed"
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DetailSnapshot is a copy of the detail view state. Detail and Images are
// set only in DetailLoaded, Err only in DetailFailed.
type DetailSnapshot struct {
	State  DetailState
	ID     string
	Detail *model.ListingDetail
	Images []string
	Index  int
	Err    error
}

// CurrentImage returns the image under the carousel index, or "".
func (d DetailSnapshot) CurrentImage() string {
	if d.Index < 0 || d.Index >= len(d.Images) {
		return ""
	}
	return d.Images[d.Index]
}

// DetailLoader fetches one listing's full record on demand and tracks the
// carousel position. Nothing is cached between opens.
type DetailLoader struct {
	api    ListingsAPI
	logger *slog.Logger
	tracer trace.Tracer
	notify func(Event)

	mu     sync.Mutex
	state  DetailState
	id     string
	detail *model.ListingDetail
	images []string
	index  int
	err    error
	seq    uint64
	cancel context.CancelFunc
}

// NewDetailLoader creates a closed detail loader. notify may be nil.
func NewDetailLoader(api ListingsAPI, logger *slog.Logger, notify func(Event)) *DetailLoader {
	if logger == nil {
		logger = slog.Default()
	}
	if notify == nil {
		notify = func(Event) {}
	}
	return &DetailLoader{
		api:    api,
		logger: logger,
		tracer: tracer(),
		notify: notify,
	}
}

// Open loads the listing id. It is only accepted from the closed state. A
// failed fetch leaves the view in DetailFailed and is also returned.
func (d *DetailLoader) Open(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	d.mu.Lock()
	if d.state != DetailClosed {
		d.mu.Unlock()
		return ErrDetailNotClosed
	}
	d.seq++
	seq := d.seq
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.state = DetailLoading
	d.id = id
	d.mu.Unlock()
	defer cancel()

	d.notify(Event{Kind: EventDetail})

	ctx, span := d.tracer.Start(ctx, "DetailLoader.Open", trace.WithAttributes(attribute.String("listing.id", id)))
	defer span.End()

	detail, err := d.api.FetchListingDetail(ctx, id)

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		d.logger.Debug("discarding stale listing detail", "id", id)
		return ErrSuperseded
	}
	d.cancel = nil

	if err != nil {
		d.state = DetailFailed
		d.err = err
		d.mu.Unlock()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Warn("failed to load listing detail", "id", id, "error", err)
		d.notify(Event{Kind: EventDetail})
		return err
	}

	images := make([]string, 0, len(detail.Images))
	for _, img := range detail.Images {
		images = append(images, img.URL)
	}
	d.state = DetailLoaded
	d.detail = detail
	d.images = images
	d.index = 0
	d.mu.Unlock()

	d.notify(Event{Kind: EventDetail})
	return nil
}

// Retry reopens the listing whose load failed.
func (d *DetailLoader) Retry(ctx context.Context) error {
	d.mu.Lock()
	if d.state != DetailFailed {
		d.mu.Unlock()
		return ErrNothingToRetry
	}
	id := d.id
	d.mu.Unlock()

	d.Close()
	return d.Open(ctx, id)
}

// Close dismisses the detail view and drops the loaded record and images.
// An in-flight load becomes stale.
func (d *DetailLoader) Close() {
	d.mu.Lock()
	if d.state == DetailClosed {
		d.mu.Unlock()
		return
	}
	d.seq++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.state = DetailClosed
	d.id = ""
	d.detail = nil
	d.images = nil
	d.index = 0
	d.err = nil
	d.mu.Unlock()

	d.notify(Event{Kind: EventDetail})
}

// Advance moves the carousel by delta images, clamped to the sequence.
// It reports whether the index changed.
func (d *DetailLoader) Advance(delta int) bool {
	d.mu.Lock()
	if d.state != DetailLoaded || len(d.images) == 0 {
		d.mu.Unlock()
		return false
	}
	next := min(max(d.index+delta, 0), len(d.images)-1)
	if next == d.index {
		d.mu.Unlock()
		return false
	}
	d.index = next
	d.mu.Unlock()

	d.notify(Event{Kind: EventImage})
	return true
}

// Snapshot returns a copy of the current state.
func (d *DetailLoader) Snapshot() DetailSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := DetailSnapshot{
		State: d.state,
		ID:    d.id,
		Index: d.index,
	}
	switch d.state {
	case DetailLoaded:
		detail := *d.detail
		snap.Detail = &detail
		snap.Images = append([]string(nil), d.images...)
	case DetailFailed:
		snap.Err = d.err
	}
	return snap
}
