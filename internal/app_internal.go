package internal

import (
	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

// AppInternal holds everything the CLI entry point needs from the container.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates the AppInternal from the aggregated controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns every controller, each of which becomes a subcommand.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
