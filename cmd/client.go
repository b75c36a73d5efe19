package cmd

import (
	"context"

	"go.infratographer.com/nodebalancer-manager/internal/config"
	"go.infratographer.com/nodebalancer-manager/internal/credentials"
	"go.infratographer.com/nodebalancer-manager/internal/linodeapi"
	"go.infratographer.com/nodebalancer-manager/internal/manager"
)

// newLinodeClient resolves the api token and builds a client from the app config
func newLinodeClient(ctx context.Context) (*linodeapi.Client, error) {
	token, src, err := credentials.Resolve(credentials.DefaultSources(config.AppConfig.API.Key)...)
	if err != nil {
		return nil, err
	}

	logger.Debugw("resolved linode api token", "source", src.String())

	return linodeapi.NewClient(ctx, token,
		linodeapi.WithLogger(logger),
		linodeapi.WithBaseURL(config.AppConfig.API.URL),
		linodeapi.WithTimeout(config.AppConfig.API.Timeout),
		linodeapi.WithRetries(config.AppConfig.API.Retries),
		linodeapi.WithUserAgent(appName),
	)
}

// newManager builds an authenticated manager. The token is probed before it is handed out.
func newManager(ctx context.Context) (*manager.Manager, error) {
	if err := validateOutput(config.AppConfig.Output); err != nil {
		return nil, err
	}

	client, err := newLinodeClient(ctx)
	if err != nil {
		return nil, err
	}

	username, err := client.Probe(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debugw("authenticated against linode api", "username", username)

	return &manager.Manager{API: client, Logger: logger}, nil
}
