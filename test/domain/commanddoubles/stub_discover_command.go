//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/commands"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// StubDiscoverCommand is a stub implementation of commands.Discover.
type StubDiscoverCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.DiscoverOptions
}

var _ commands.Discover = (*StubDiscoverCommand)(nil)

func (s *StubDiscoverCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.DiscoverOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}
