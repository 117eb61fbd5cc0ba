package metadata

import (
	"context"
	"io"
	"sync"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// MockExtractor is a configurable MetadataExtractor for tests.
type MockExtractor struct {
	mu sync.Mutex

	// Records maps file paths to canned metadata
	Records map[string]ports.Metadata

	// FailPaths lists file paths whose extraction fails
	FailPaths map[string]bool

	// Calls records the paths extracted, in order
	Calls []string
}

// NewMockExtractor creates an empty mock extractor.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		Records:   make(map[string]ports.Metadata),
		FailPaths: make(map[string]bool),
	}
}

// Extract returns the canned record for the path, or a file-name fallback
// when none is configured.
func (e *MockExtractor) Extract(_ context.Context, _ io.ReadSeeker, info ports.FileInfo) (ports.Metadata, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Calls = append(e.Calls, info.Path)
	if e.FailPaths[info.Path] {
		return ports.Metadata{}, domain.NewServiceError("MockExtractor", "Extract", "extraction failed", nil)
	}
	if meta, ok := e.Records[info.Path]; ok {
		return meta, nil
	}
	return fallbackMetadata(info), nil
}

// Verify interface implementation
var _ ports.MetadataExtractor = (*MockExtractor)(nil)
