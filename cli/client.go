package main

import (
	"github.com/krancour/resman/internal/session"
	"github.com/krancour/resman/sdk/authx"
	"github.com/krancour/resman/sdk/research"
	"github.com/krancour/resman/sdk/restmachinery"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func getAPIClientOptions(cfg *config) *restmachinery.APIClientOptions {
	return &restmachinery.APIClientOptions{
		AllowInsecureConnections: cfg.Insecure,
	}
}

func getAuthClient(cfg *config) authx.APIClient {
	return authx.NewAPIClient(cfg.APIAddress, getAPIClientOptions(cfg))
}

func getSessionStore(cfg *config) (session.Store, error) {
	switch cfg.SessionBackend {
	case "file":
		return session.NewFileStore(cfg.Home), nil
	case "redis":
		return session.NewRedisStoreFromEnvironment()
	}
	return nil, errors.Errorf("unknown session backend %q", cfg.SessionBackend)
}

// getResearchClient returns a client authorized by the stored Session. Only a
// verified Session will do.
func getResearchClient(c *cli.Context) (research.APIClient, error) {
	cfg, err := getConfig(c)
	if err != nil {
		return nil, errors.Wrap(err, "error retrieving configuration")
	}
	store, err := getSessionStore(cfg)
	if err != nil {
		return nil, err
	}
	s, err := store.Read(c.Context)
	if err != nil {
		return nil, errors.Wrap(err, "error reading session")
	}
	if s == nil || !s.Verified() {
		return nil, errors.New(
			"no verified session was found; please use `resman login` to continue",
		)
	}
	return research.NewAPIClient(
		cfg.APIAddress,
		s.Token,
		getAPIClientOptions(cfg),
	), nil
}
