//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// SpyProgressReporter records messages and items instead of printing them.
type SpyProgressReporter struct {
	mu       sync.Mutex
	messages []string
	items    []string
}

var _ repositories.ProgressReporter = (*SpyProgressReporter)(nil)

func (s *SpyProgressReporter) Log(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
}

func (s *SpyProgressReporter) ForItem(label, name string, action func() error) error {
	s.mu.Lock()
	s.items = append(s.items, label+" "+name)
	s.mu.Unlock()
	return action()
}

// Messages returns the logged messages in order.
func (s *SpyProgressReporter) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// Items returns the "<label> <name>" of every reported item in order.
func (s *SpyProgressReporter) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.items...)
}
