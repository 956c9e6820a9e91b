// Package cache stores fetched transcripts keyed by video ID and language
// so repeat requests skip the network entirely.
//
// What is cached is the normalized transcript, not the raw caption file:
// refinement stays cheap to re-run, so improvements to a refiner apply to
// already-cached videos without refetching.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMiss reports that no usable entry exists for the key. Expired and
// corrupt entries surface as a miss too; a cache problem must never block
// the fetch path.
var ErrMiss = errors.New("cache miss")

// Entry is one cached transcript. Entries are written whole and never
// mutated in place; a newer fetch for the same key replaces the old entry.
type Entry struct {
	VideoID  string
	Language string
	Lines    []string
	Title    string
	// FetchedAt is stamped by the store when the entry is written and
	// reported back on Lookup. Values set by callers are ignored.
	FetchedAt time.Time
}

// Store maps (video ID, language) to cached transcripts. Implementations
// evict expired entries lazily during Lookup; there is no background sweep.
// PurgeExpired exists for explicit maintenance.
type Store interface {
	// Lookup returns the entry for the key, or ErrMiss.
	Lookup(ctx context.Context, videoID, lang string) (*Entry, error)
	// Put stores the entry, replacing any previous entry for the key.
	Put(ctx context.Context, entry *Entry) error
	// Remove deletes the entry for the key if present.
	Remove(ctx context.Context, videoID, lang string) error
	// PurgeExpired deletes every entry past the retention window and
	// reports how many were removed.
	PurgeExpired(ctx context.Context) (int, error)
}

// New builds the store named by backend. "sqlite" opens a database at
// dbPath; anything else gets the file store at dir, which is also the
// default. Config validation rejects unknown backend names before this
// runs.
func New(backend, dir, dbPath string, ttl time.Duration) (Store, error) {
	if backend == "sqlite" {
		return NewSQLiteStore(dbPath, ttl)
	}
	return NewFileStore(dir, ttl), nil
}

// placeholderTitle stands in when an entry has no recorded title, so front
// ends always have something to display.
func placeholderTitle(videoID string) string {
	return fmt.Sprintf("Cached Video (%s)", videoID)
}

// splitLines reverses the newline-joined payload encoding, dropping empty
// lines so a trailing newline does not round-trip into a phantom line.
func splitLines(payload string) []string {
	var lines []string
	for _, line := range strings.Split(payload, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// joinLines is the payload encoding shared by both stores: one transcript
// line per text line.
func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
