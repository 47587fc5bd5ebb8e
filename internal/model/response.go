package model

import "time"

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status      string    `json:"status"`
	ListingsAPI string    `json:"listings_api"`
	Timestamp   time.Time `json:"timestamp"`
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SearchRequest sets the active search term
type SearchRequest struct {
	Term string `json:"term"`
}
