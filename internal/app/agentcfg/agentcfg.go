// Package agentcfg owns the runtime configuration of the agent: the
// reconciliation of supplied, environment, and metadata-service values into
// a settled project identity, and the exactly-once ready/error notification
// contract every other component depends on.
//
// A Config is created in the Pending state and immediately starts one async
// project-number fetch against the metadata resolver. When the fetch
// callback fires — success or failure — the configuration gathers local
// values and settles exactly once into Ready or Failed. Consumers subscribe
// with OnReady/OnError rather than polling:
//
//	cfg := agentcfg.New(fileCfg.Reporting, resolver, logger)
//	cfg.OnReady(func() { flushPending() })
//	cfg.OnError(func(err error) { logger.Warn("offline", slog.Any("error", err)) })
package agentcfg

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/jsamuelsen11/errtrack/internal/domain"
	"github.com/jsamuelsen11/errtrack/internal/domain/report"
	"github.com/jsamuelsen11/errtrack/internal/platform/config"
	"github.com/jsamuelsen11/errtrack/internal/ports"
)

// Recognized environment variables. They take precedence over the supplied
// configuration but are overridden by metadata-service values.
const (
	// EnvProject identifies the project; all-digit values are treated as
	// a project number, anything else as a project ID.
	EnvProject = "ERRTRACK_PROJECT"

	EnvService        = "ERRTRACK_SERVICE"
	EnvServiceVersion = "ERRTRACK_SERVICE_VERSION"

	// EnvReportUncaught toggles panic reporting; non-boolean values are
	// silently ignored.
	EnvReportUncaught = "ERRTRACK_REPORT_UNCAUGHT"

	// EnvEnvironment names the deployment environment. Reporting is
	// enabled only for "production" unless the supplied configuration
	// bypasses the check.
	EnvEnvironment = "ERRTRACK_ENV"
)

// productionEnv is the environment value that enables reporting.
const productionEnv = "production"

// State is the settlement state of a Config. The transition out of
// StatePending happens exactly once per instance.
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config is the runtime configuration. It is safe for concurrent use: all
// fields are guarded by mu, and mutation happens only inside the settlement
// routine.
type Config struct {
	mu sync.Mutex

	state     State
	settleErr error

	projectID     string
	projectNumber string
	serviceCtx    report.ServiceContext
	apiKey        string

	reportUncaught   bool
	reportingEnabled bool

	supplied  config.ReportingConfig
	lookupEnv func(string) (string, bool)
	logger    *slog.Logger

	readyFns []func()
	errorFns []func(error)
}

// New creates a Pending Config and immediately starts the one-shot
// project-number fetch. The resolver is consulted exactly once per Config
// lifetime; it is never retried.
func New(supplied config.ReportingConfig, resolver ports.ProjectResolver, logger *slog.Logger) *Config {
	c := newPending(supplied, logger)

	go func() {
		number, err := resolver.ProjectNumber(context.Background())
		c.settle(number, err)
	}()

	return c
}

// newPending constructs the Config without starting the fetch; the tests
// drive settlement directly through settle.
func newPending(supplied config.ReportingConfig, logger *slog.Logger) *Config {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Config{
		state:          StatePending,
		supplied:       supplied,
		lookupEnv:      os.LookupEnv,
		logger:         logger,
		reportUncaught: supplied.ReportUncaught,
	}
}

// OnReady registers fn to fire exactly once: immediately if the Config has
// already settled successfully, or at the next successful settlement.
// Registration after a failed settlement is a silent no-op.
func (c *Config) OnReady(fn func()) {
	c.mu.Lock()
	switch c.state {
	case StatePending:
		c.readyFns = append(c.readyFns, fn)
		c.mu.Unlock()
		return
	case StateReady:
		c.mu.Unlock()
		fn()
	case StateFailed:
		c.mu.Unlock()
	}
}

// OnError is the symmetric counterpart of OnReady: fn fires exactly once
// with the settlement error, immediately if settlement has already failed.
// Registration after a successful settlement is a silent no-op.
func (c *Config) OnError(fn func(error)) {
	c.mu.Lock()
	switch c.state {
	case StatePending:
		c.errorFns = append(c.errorFns, fn)
		c.mu.Unlock()
		return
	case StateFailed:
		err := c.settleErr
		c.mu.Unlock()
		fn(err)
	case StateReady:
		c.mu.Unlock()
	}
}

// settle runs the settlement algorithm from the metadata-fetch callback:
// store the remote value on success, unconditionally gather local values,
// then run the integrity check. Only the first invocation transitions the
// state and emits events; later invocations re-run local gathering but are
// otherwise no-ops.
func (c *Config) settle(remoteNumber string, fetchErr error) {
	c.mu.Lock()

	if fetchErr != nil {
		// Recoverable: local sources may still identify the project.
		c.logger.Warn("metadata project lookup failed",
			slog.Any("error", fetchErr),
		)
	} else if c.projectNumber == "" {
		c.projectNumber = remoteNumber
	}

	c.gatherLocalLocked()

	if c.state != StatePending {
		c.mu.Unlock()
		return
	}

	if c.projectID == "" && c.projectNumber == "" {
		c.state = StateFailed
		c.settleErr = domain.ErrProjectUnresolved
		fns := c.errorFns
		c.readyFns, c.errorFns = nil, nil
		err := c.settleErr
		c.mu.Unlock()

		c.logger.Error("runtime configuration failed to settle", slog.Any("error", err))
		for _, fn := range fns {
			fn(err)
		}
		return
	}

	c.state = StateReady
	fns := c.readyFns
	c.readyFns, c.errorFns = nil, nil
	id, number := c.projectID, c.projectNumber
	c.mu.Unlock()

	c.logger.Info("runtime configuration settled",
		slog.String("project_id", id),
		slog.String("project_number", number),
	)
	for _, fn := range fns {
		fn()
	}
}

// gatherLocalLocked resolves each setting from its ordered source list:
// already-set (remote) value first, then recognized environment variables,
// then the supplied configuration. First present value wins; malformed
// values are skipped, never errors. Callers must hold mu.
func (c *Config) gatherLocalLocked() {
	if c.projectID == "" && c.projectNumber == "" {
		for _, src := range []func() (string, bool){
			func() (string, bool) { return c.lookupEnv(EnvProject) },
			func() (string, bool) { return c.supplied.ProjectID, c.supplied.ProjectID != "" },
		} {
			v, ok := src()
			if !ok || v == "" {
				continue
			}
			if isNumeric(v) {
				c.projectNumber = v
			} else {
				c.projectID = v
			}
			break
		}
	}

	if c.serviceCtx.Service == "" {
		c.serviceCtx.Service = firstPresent(
			func() (string, bool) { return c.lookupEnv(EnvService) },
			valueSource(c.supplied.ServiceContext.Service),
		)
	}
	if c.serviceCtx.Version == "" {
		c.serviceCtx.Version = firstPresent(
			func() (string, bool) { return c.lookupEnv(EnvServiceVersion) },
			valueSource(c.supplied.ServiceContext.Version),
		)
	}

	if c.apiKey == "" {
		c.apiKey = c.supplied.Key
	}

	if v, ok := c.lookupEnv(EnvReportUncaught); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.reportUncaught = b
		}
	}

	c.reportingEnabled = c.resolveReportingEnabled()
}

// resolveReportingEnabled derives the reporting flag: an explicit bypass
// wins; otherwise only production-like environments report.
func (c *Config) resolveReportingEnabled() bool {
	if c.supplied.IgnoreEnvironmentCheck {
		return true
	}
	env := firstPresent(
		func() (string, bool) { return c.lookupEnv(EnvEnvironment) },
		valueSource(c.supplied.Environment),
	)
	return env == productionEnv
}

// State returns the current settlement state.
func (c *Config) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the settlement error, or nil before settlement or after a
// successful one.
func (c *Config) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settleErr
}

// ProjectID returns the settled project identifier: the project ID when one
// resolved, otherwise the project number. Returns domain.ErrProjectUnresolved
// while Pending or after a failed settlement.
func (c *Config) ProjectID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return "", domain.ErrProjectUnresolved
	}
	if c.projectID != "" {
		return c.projectID, nil
	}
	return c.projectNumber, nil
}

// ProjectNumber returns the resolved numeric project identifier, which may
// be empty when only a project ID is known.
func (c *Config) ProjectNumber() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectNumber
}

// APIKey returns the configured API key, or empty when ambient credentials
// should be used instead.
func (c *Config) APIKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey
}

// ServiceContext returns the resolved service context.
func (c *Config) ServiceContext() report.ServiceContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serviceCtx
}

// ReportUncaught reports whether recovered panics should be reported.
func (c *Config) ReportUncaught() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reportUncaught
}

// ReportingEnabled reports whether events should be sent to the remote API.
func (c *Config) ReportingEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reportingEnabled
}

// CredentialsAvailable reports whether the agent holds any credential for
// the remote API. Independent of settlement state.
func (c *Config) CredentialsAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey != ""
}

// firstPresent consults sources in order and returns the first non-empty
// value, or empty when none yields one.
func firstPresent(sources ...func() (string, bool)) string {
	for _, src := range sources {
		if v, ok := src(); ok && v != "" {
			return v
		}
	}
	return ""
}

func valueSource(v string) func() (string, bool) {
	return func() (string, bool) { return v, v != "" }
}

// isNumeric reports whether s consists solely of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
