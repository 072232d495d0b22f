// Package config provides configuration loading and validation for the agent.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the agent.
type Config struct {
	Agent     AgentConfig     `koanf:"agent"`
	Log       LogConfig       `koanf:"log"`
	Reporting ReportingConfig `koanf:"reporting"`
	Client    ClientConfig    `koanf:"client"`
	Metadata  MetadataConfig  `koanf:"metadata"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// AgentConfig holds the local ingest HTTP server settings.
type AgentConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ServiceContextConfig names the reporting application to the remote service.
type ServiceContextConfig struct {
	Service string `koanf:"service"`
	Version string `koanf:"version"`
}

// ReportingConfig holds the explicitly supplied reporting settings. These
// are the lowest-precedence source consulted by the runtime configuration:
// values resolved from the metadata service or recognized environment
// variables win over them.
type ReportingConfig struct {
	ProjectID      string               `koanf:"project_id"`
	Key            string               `koanf:"key"`
	ServiceContext ServiceContextConfig `koanf:"service_context"`
	// ReportUncaught controls whether recovered panics are reported.
	ReportUncaught bool `koanf:"report_uncaught"`
	// IgnoreEnvironmentCheck forces reporting on regardless of the
	// environment value.
	IgnoreEnvironmentCheck bool `koanf:"ignore_environment_check"`
	// Environment is the deployment environment name; reporting is enabled
	// only for "production" unless IgnoreEnvironmentCheck is set.
	Environment string `koanf:"environment"`
}

// ClientConfig holds outbound API client settings.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds outbound request rate limiting settings.
// A zero RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// MetadataConfig holds the environment-local metadata service settings used
// to resolve the project number at startup.
type MetadataConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
