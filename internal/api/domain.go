package api

import (
	"github.com/JaimeStill/clausewise/internal/analyses"
	"github.com/JaimeStill/clausewise/internal/subscriptions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses      analyses.System
	Subscriptions subscriptions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	subsSystem := subscriptions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		nil,
	)

	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Workflow,
		subsSystem,
		runtime.Logger,
		runtime.Pagination,
		runtime.Analysis,
	)

	return &Domain{
		Analyses:      analysesSystem,
		Subscriptions: subsSystem,
	}
}
