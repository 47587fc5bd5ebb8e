package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"car-listings-viewer/internal/client"
	"car-listings-viewer/internal/matching"
	"car-listings-viewer/internal/model"
	"car-listings-viewer/internal/pagination"
)

var (
	// ErrSuperseded is returned when a newer request replaced this one and
	// its response was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrPageOutOfRange is returned by page navigation that would leave
	// 1..TotalPages. The state is left unchanged.
	ErrPageOutOfRange = errors.New("page out of range")
)

// ListingsAPI is the remote listings service as seen by the view.
type ListingsAPI interface {
	FetchListingsPage(ctx context.Context, page, pageSize int) (*model.ListingsPage, error)
	FetchListingDetail(ctx context.Context, id string) (*model.ListingDetail, error)
	FetchAnalysis(ctx context.Context) (*model.Analysis, error)
}

var _ ListingsAPI = (*client.ListingsClient)(nil)

func tracer() trace.Tracer {
	return otel.Tracer("car-listings-viewer/internal/service")
}

// PageStatus is the state of the card grid.
type PageStatus int

const (
	PageIdle PageStatus = iota
	PageLoading
	PageLoaded
	PageFailed
)

func (s PageStatus) String() string {
	switch s {
	case PageIdle:
		return "idle"
	case PageLoading:
		return "loading"
	case PageLoaded:
		return "loaded"
	case PageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of the whole view state.
type Snapshot struct {
	Window pagination.Window
	Status PageStatus
	// Err is the last page fetch error, set only in PageFailed.
	Err error
	// Term is the active search term.
	Term string
	// Items are the current page's listings after filtering by Term.
	Items []model.Listing
	// PageCount is the number of listings on the page before filtering.
	PageCount int
	CanPrev   bool
	CanNext   bool

	Analysis    *model.Analysis
	AnalysisErr error

	Detail DetailSnapshot
}

// ViewService owns the listings view: the page window, the last fetched
// page, the search term, the image statistics and the detail view.
// Filtering is client-side only and never triggers a fetch.
type ViewService struct {
	api    ListingsAPI
	logger *slog.Logger
	tracer trace.Tracer
	events *hub
	detail *DetailLoader

	mu          sync.Mutex
	window      pagination.Window
	status      PageStatus
	err         error
	items       []model.Listing
	term        string
	requested   int
	seq         uint64
	cancel      context.CancelFunc
	analysis    *model.Analysis
	analysisErr error
}

// NewViewService creates a view over api showing pageSize listings per page.
func NewViewService(api ListingsAPI, pageSize int, logger *slog.Logger) *ViewService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ViewService{
		api:       api,
		logger:    logger,
		tracer:    tracer(),
		events:    newHub(),
		window:    pagination.NewWindow(pageSize),
		requested: 1,
	}
	s.detail = NewDetailLoader(api, logger, s.events.publish)
	return s
}

// Subscribe registers fn for change events and returns its cancel function.
func (s *ViewService) Subscribe(fn func(Event)) (cancel func()) {
	return s.events.subscribe(fn)
}

// Load fetches the first page.
func (s *ViewService) Load(ctx context.Context) error {
	return s.fetchPage(ctx, 1)
}

// Reload fetches the most recently requested page again.
func (s *ViewService) Reload(ctx context.Context) error {
	s.mu.Lock()
	page := s.requested
	s.mu.Unlock()
	return s.fetchPage(ctx, page)
}

// GoToPage fetches page n. Pages outside 1..TotalPages are ignored.
func (s *ViewService) GoToPage(ctx context.Context, n int) error {
	s.mu.Lock()
	valid := s.window.Valid(n)
	s.mu.Unlock()

	if !valid {
		return ErrPageOutOfRange
	}
	return s.fetchPage(ctx, n)
}

// NextPage fetches the page after the displayed one.
func (s *ViewService) NextPage(ctx context.Context) error {
	s.mu.Lock()
	next := s.window.Next()
	s.mu.Unlock()

	if next == 0 {
		return ErrPageOutOfRange
	}
	return s.fetchPage(ctx, next)
}

// PrevPage fetches the page before the displayed one.
func (s *ViewService) PrevPage(ctx context.Context) error {
	s.mu.Lock()
	prev := s.window.Prev()
	s.mu.Unlock()

	if prev == 0 {
		return ErrPageOutOfRange
	}
	return s.fetchPage(ctx, prev)
}

// fetchPage issues a page request. Only the last issued request may update
// the state; earlier ones are cancelled and their responses discarded.
func (s *ViewService) fetchPage(ctx context.Context, page int) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.status = PageLoading
	s.err = nil
	s.requested = page
	pageSize := s.window.PageSize
	s.mu.Unlock()
	defer cancel()

	s.events.publish(Event{Kind: EventPage})

	ctx, span := s.tracer.Start(ctx, "ViewService.fetchPage", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	))
	defer span.End()

	res, err := s.api.FetchListingsPage(ctx, page, pageSize)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale listings page", "page", page)
		span.SetAttributes(attribute.Bool("stale", true))
		return ErrSuperseded
	}
	s.cancel = nil

	if err != nil {
		s.status = PageFailed
		s.err = err
		s.items = nil
		s.mu.Unlock()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("failed to load listings page", "page", page, "status", client.StatusCode(err), "error", err)
		s.events.publish(Event{Kind: EventPage})
		return err
	}

	s.items = res.Listings
	s.window = s.window.WithResult(page, pageSize, res.Total)
	s.status = PageLoaded
	s.mu.Unlock()

	s.logger.Debug("listings page loaded", "page", page, "items", len(res.Listings), "total", res.Total)
	s.events.publish(Event{Kind: EventPage})
	return nil
}

// SetSearchTerm filters the current page by term without fetching. The term
// stays active across page changes.
func (s *ViewService) SetSearchTerm(term string) {
	s.mu.Lock()
	s.term = term
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventPage})
}

// LoadAnalysis fetches the image statistics. A failure is kept in the
// snapshot so the renderer can degrade each field.
func (s *ViewService) LoadAnalysis(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "ViewService.LoadAnalysis")
	defer span.End()

	analysis, err := s.api.FetchAnalysis(ctx)

	s.mu.Lock()
	s.analysis = analysis
	s.analysisErr = err
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("failed to load analysis results", "error", err)
	}
	s.events.publish(Event{Kind: EventAnalysis})
	return err
}

// OpenDetail opens the detail view for listing id.
func (s *ViewService) OpenDetail(ctx context.Context, id string) error {
	return s.detail.Open(ctx, id)
}

// RetryDetail reopens a detail whose load failed.
func (s *ViewService) RetryDetail(ctx context.Context) error {
	return s.detail.Retry(ctx)
}

// CloseDetail dismisses the detail view.
func (s *ViewService) CloseDetail() {
	s.detail.Close()
}

// AdvanceImage moves the carousel by delta.
func (s *ViewService) AdvanceImage(delta int) bool {
	return s.detail.Advance(delta)
}

// Snapshot returns a copy of the current view state.
func (s *ViewService) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Window:      s.window,
		Status:      s.status,
		Err:         s.err,
		Term:        s.term,
		Analysis:    s.analysis,
		AnalysisErr: s.analysisErr,
	}
	if s.status == PageLoaded {
		snap.PageCount = len(s.items)
		snap.Items = append([]model.Listing(nil), matching.FilterListings(s.items, s.term)...)
		snap.CanPrev = s.window.HasPrev()
		snap.CanNext = s.window.HasNext()
	}
	s.mu.Unlock()

	snap.Detail = s.detail.Snapshot()
	return snap
}
