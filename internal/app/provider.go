package app

import (
	"fmt"

	"github.com/outstackhq/outstack/internal/config"
	"github.com/outstackhq/outstack/internal/platform/lemlist"
	"github.com/outstackhq/outstack/internal/platform/router"
)

// Provider bundles the shared infrastructure the application is wired with.
type Provider struct {
	Lemlist *lemlist.Client
	Router  router.Router
}

func newProvider(cfg *config.Config, apiKey string) (*Provider, error) {
	client, err := lemlist.New(cfg.Lemlist, apiKey)
	if err != nil {
		return nil, fmt.Errorf("new lemlist client: %w", err)
	}

	return &Provider{
		Lemlist: client,
		Router:  router.NewGoexpressRouter(),
	}, nil
}
