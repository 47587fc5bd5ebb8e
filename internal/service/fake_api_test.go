package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"car-listings-viewer/internal/client"
	"car-listings-viewer/internal/model"
)

// fakeAPI serves a synthetic collection of total listings. Requests for a
// page with a gate block until the gate is closed, ignoring cancellation, so
// tests can control the order in which responses arrive.
type fakeAPI struct {
	mu          sync.Mutex
	total       int
	pageErr     error
	gates       map[int]chan struct{}
	pageCalls   []int
	details     map[string]*model.ListingDetail
	detailErr   error
	detailGate  chan struct{}
	detailCalls int
	analysis    *model.Analysis
	analysisErr error
}

func newFakeAPI(total int) *fakeAPI {
	return &fakeAPI{
		total:   total,
		gates:   make(map[int]chan struct{}),
		details: make(map[string]*model.ListingDetail),
	}
}

func (f *fakeAPI) FetchListingsPage(ctx context.Context, page, pageSize int) (*model.ListingsPage, error) {
	f.mu.Lock()
	f.pageCalls = append(f.pageCalls, page)
	gate := f.gates[page]
	err := f.pageErr
	total := f.total
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	res := &model.ListingsPage{Page: page, Limit: pageSize, Total: total, Listings: []model.Listing{}}
	start := (page - 1) * pageSize
	for i := start; i < start+pageSize && i < total; i++ {
		res.Listings = append(res.Listings, model.Listing{
			ID:     fmt.Sprintf("p%d-%d", page, i),
			Brand:  []string{"SEAT", "Kia", "Renault"}[i%3],
			Model:  fmt.Sprintf("Modelo %d", i),
			Dealer: []string{"Autos Málaga", "Motor Sur"}[i%2],
		})
	}
	return res, nil
}

func (f *fakeAPI) FetchListingDetail(ctx context.Context, id string) (*model.ListingDetail, error) {
	f.mu.Lock()
	f.detailCalls++
	gate := f.detailGate
	err := f.detailErr
	d, ok := f.details[id]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", client.ErrNotFound, id)
	}
	copied := *d
	return &copied, nil
}

func (f *fakeAPI) FetchAnalysis(ctx context.Context) (*model.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analysis, f.analysisErr
}

func (f *fakeAPI) setGate(page int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[page] = gate
	return gate
}

func (f *fakeAPI) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pageCalls...)
}

func (f *fakeAPI) waitForCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(f.calls()) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d page calls, have %v", n, f.calls())
		}
		time.Sleep(time.Millisecond)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func detailWithImages(id string, n int) *model.ListingDetail {
	d := &model.ListingDetail{ID: id, Brand: "Peugeot", Model: "308"}
	for i := 0; i < n; i++ {
		d.Images = append(d.Images, model.Image{URL: fmt.Sprintf("http://api.test/api/images/%s/%d.jpg", id, i)})
	}
	return d
}
