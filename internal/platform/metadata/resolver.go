// Package metadata resolves the running process's project number from the
// environment-local metadata service. The lookup is attempted exactly once
// per runtime configuration lifetime and is never retried automatically:
// a failure is recoverable because environment variables or supplied
// configuration can still identify the project.
package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/errtrack/internal/platform/config"
)

// flavorHeader marks requests as originating from inside the environment;
// the metadata service rejects requests without it to prevent accidental
// proxying of metadata lookups.
const (
	flavorHeader = "Metadata-Flavor"
	flavorValue  = "errtrack"

	projectNumberPath = "/v1/project/numeric-id"

	// maxBodySize bounds the identifier read; project numbers are short.
	maxBodySize = 256
)

// Resolver fetches the project number over HTTP from the metadata service.
type Resolver struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a Resolver for the configured metadata endpoint.
func New(cfg config.MetadataConfig, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// ProjectNumber performs one GET against the metadata endpoint and returns
// the numeric project identifier as a string. Network failures, non-200
// responses, and empty bodies are all reported as errors; the caller decides
// whether other sources can still settle the configuration.
func (r *Resolver) ProjectNumber(ctx context.Context) (string, error) {
	url := r.baseURL + projectNumberPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating metadata request: %w", err)
	}
	req.Header.Set(flavorHeader, flavorValue)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("querying metadata service: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			r.logger.Warn("failed to close metadata response body",
				slog.String("error", cerr.Error()),
			)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading metadata response: %w", err)
	}

	number := strings.TrimSpace(string(body))
	if number == "" {
		return "", fmt.Errorf("metadata service returned an empty project number")
	}

	r.logger.Debug("resolved project number from metadata service",
		slog.String("project_number", number),
	)
	return number, nil
}

// Name identifies the resolver in health reports.
func (r *Resolver) Name() string {
	return "metadata"
}

// HealthCheck probes the metadata endpoint. The resolver itself is stateless,
// so health reflects reachability of the metadata service only.
func (r *Resolver) HealthCheck(ctx context.Context) error {
	_, err := r.ProjectNumber(ctx)
	return err
}
