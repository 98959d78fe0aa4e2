// Package store persists saved node graphs and their metadata.
//
// This package defines an interface for graph storage with implementations
// for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI usage
//   - mongo: MongoDB-backed storage for the shared service deployment
//
// # Architecture
//
// A Record wraps the serialized graph bytes with identity and timestamps.
// The Store interface supports:
//   - Get/Put/Delete operations by record ID
//   - Listing summaries without loading graph bytes
//
// # Usage
//
//	// CLI
//	st, err := store.NewFileStore("") // uses ~/.config/noisegraph/graphs/
//
//	// Service
//	st, err := store.NewMongoStore(ctx, store.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
//	rec := store.NewRecord("terrain", graphBytes)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Record is one saved node graph.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Graph     []byte    `json:"graph" bson:"graph"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Summary is record metadata without the graph bytes, for listings.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for graph storage backends.
type Store interface {
	// Get retrieves a record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, overwriting any record with the same ID.
	// UpdatedAt is refreshed on every call.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all records, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Close releases any backend resources.
	Close(ctx context.Context) error
}

// GenerateID creates a cryptographically secure random record ID.
func GenerateID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewRecord creates a record for the given graph bytes with a fresh ID.
func NewRecord(name string, graph []byte) (*Record, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Record{
		ID:        id,
		Name:      name,
		Graph:     graph,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
