package server

import (
	"net/http"
	"sync"
)

// Metrics holds in-process request counters. They reset on restart; this
// service deliberately carries no external metrics system.
type Metrics struct {
	mu sync.RWMutex

	uploadsTotal      int64
	uploadBytesTotal  int64
	uploadErrorsTotal int64

	lookupsTotal      int64
	lookupErrorsTotal int64

	requestsTotal    int64
	requestErrors4xx int64
	requestErrors5xx int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the global metrics instance.
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordUpload records a successful upload.
func (m *Metrics) RecordUpload(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsTotal++
	m.uploadBytesTotal += bytes
}

// RecordUploadError records a failed upload.
func (m *Metrics) RecordUploadError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadErrorsTotal++
}

// RecordLookup records a successful download-link lookup.
func (m *Metrics) RecordLookup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupsTotal++
}

// RecordLookupError records a failed lookup.
func (m *Metrics) RecordLookupError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupErrorsTotal++
}

// RecordRequest records one handled HTTP request by status class.
func (m *Metrics) RecordRequest(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
	switch {
	case status >= 500:
		m.requestErrors5xx++
	case status >= 400:
		m.requestErrors4xx++
	}
}

// Snapshot returns a copy of all counters for the metrics endpoint.
func (m *Metrics) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]int64{
		"uploads_total":       m.uploadsTotal,
		"upload_bytes_total":  m.uploadBytesTotal,
		"upload_errors_total": m.uploadErrorsTotal,
		"lookups_total":       m.lookupsTotal,
		"lookup_errors_total": m.lookupErrorsTotal,
		"requests_total":      m.requestsTotal,
		"request_errors_4xx":  m.requestErrors4xx,
		"request_errors_5xx":  m.requestErrors5xx,
	}
}

func metricsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GetMetrics().Snapshot())
	})
}
