// Package testutil provides testing utilities for the resolver.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/clipx/clipx-resolver/pkg/ytdlp"
)

// FakeInvoker is a configurable in-memory stand-in for the yt-dlp CLI.
// It records invocation counts so tests can assert how often the
// extractor was actually hit.
type FakeInvoker struct {
	mu     sync.Mutex
	counts map[string]int
	docs   map[string]*ytdlp.Document
	errs   map[string]error
	delay  time.Duration
	defDoc *ytdlp.Document
}

// NewFakeInvoker creates an empty fake. Unconfigured URLs return the
// default document set via SetDefault, or a minimal single-URL item.
func NewFakeInvoker() *FakeInvoker {
	return &FakeInvoker{
		counts: make(map[string]int),
		docs:   make(map[string]*ytdlp.Document),
		errs:   make(map[string]error),
	}
}

// SetDocument configures the document returned for sourceURL.
func (f *FakeInvoker) SetDocument(sourceURL string, doc *ytdlp.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[sourceURL] = doc
}

// SetError configures an error for sourceURL.
func (f *FakeInvoker) SetError(sourceURL string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[sourceURL] = err
}

// SetDefault configures the document for unconfigured URLs.
func (f *FakeInvoker) SetDefault(doc *ytdlp.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defDoc = doc
}

// SetDelay makes every invocation block for d (or until ctx is done).
func (f *FakeInvoker) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Invoke implements ytdlp.Invoker.
func (f *FakeInvoker) Invoke(ctx context.Context, sourceURL string) (*ytdlp.Document, error) {
	f.mu.Lock()
	f.counts[sourceURL]++
	doc, hasDoc := f.docs[sourceURL]
	err := f.errs[sourceURL]
	delay := f.delay
	defDoc := f.defDoc
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ytdlp.ErrTimeout
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}
	if hasDoc {
		return doc, nil
	}
	if defDoc != nil {
		return defDoc, nil
	}
	return SingleDoc("https://cdn.test/default.mp4"), nil
}

// Invocations returns the total invocation count across all URLs.
func (f *FakeInvoker) Invocations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.counts {
		total += n
	}
	return total
}

// InvocationsFor returns the invocation count for one URL.
func (f *FakeInvoker) InvocationsFor(sourceURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[sourceURL]
}

// Reset clears all counters.
func (f *FakeInvoker) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[string]int)
}

// SingleDoc builds an item that already names a direct URL.
func SingleDoc(directURL string) *ytdlp.Document {
	duration := 120.0
	return &ytdlp.Document{
		URL:        directURL,
		Title:      "Test Clip",
		Thumbnail:  "https://cdn.test/thumb.jpg",
		Duration:   &duration,
		WebpageURL: "https://example.test/watch",
		Ext:        "mp4",
	}
}

// FormatDoc builds an item whose streams live in its format list.
func FormatDoc(formats ...ytdlp.Format) *ytdlp.Document {
	return &ytdlp.Document{
		Title:   "Test Clip",
		Ext:     "mp4",
		Formats: formats,
	}
}

// PlaylistDoc builds a playlist wrapper around the given entries.
func PlaylistDoc(entries ...*ytdlp.Document) *ytdlp.Document {
	return &ytdlp.Document{
		Type:    "playlist",
		Title:   "Test Playlist",
		Entries: entries,
	}
}
