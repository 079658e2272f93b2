// Package server implements the HTTP server and HTTP handlers for the
// file-intake service. It wires together the HTTP routes and their
// dependencies (PostgreSQL metadata store, MinIO object store) and
// provides lifecycle helpers used by tests and the production binary.
package server
