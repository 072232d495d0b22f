package config

const (
	defaultAgentPort = 8094

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"agent.host":          "127.0.0.1",
		"agent.port":          defaultAgentPort,
		"agent.read_timeout":  "5s",
		"agent.write_timeout": "10s",
		"agent.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"reporting.project_id":               "",
		"reporting.key":                      "",
		"reporting.service_context.service":  "",
		"reporting.service_context.version":  "",
		"reporting.report_uncaught":          true,
		"reporting.ignore_environment_check": false,
		"reporting.environment":              "",

		"client.base_url":                        "https://errors.example.com/v1beta1",
		"client.timeout":                         "30s",
		"client.retry.max_attempts":              defaultRetryMaxAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "10s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0,
		"client.rate_limit.burst_size":           1,

		"metadata.base_url": "http://169.254.169.254",
		"metadata.timeout":  "3s",

		"telemetry.enabled":  false,
		"telemetry.exporter": "stdout",
		"telemetry.endpoint": "",
	}
}
