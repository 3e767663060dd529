// Package config holds all configuration for chunkcrawl.
//
// Configuration is an explicit value passed into session constructors
// via dependency injection; nothing reads ambient global state and
// nothing mutates a Config after a session has started.
//
// Two sources feed a Config: CLI flags (the primary interface) and an
// optional YAML file (.chunkcrawl) carrying per-site overrides such as
// auth headers and crawl patterns. Validation happens once, after flag
// parsing and before any network traffic.
package config
