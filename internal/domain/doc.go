// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/report, domain/query).
// This root package holds the sentinel errors and the validation error type
// that are shared across all entities.
package domain
