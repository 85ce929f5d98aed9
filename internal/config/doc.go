// Package config handles configuration loading for the RentalBridge client.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults, including per-environment
// API endpoints (development vs production).
//
// # Configuration File
//
// Default location: ~/.config/rentalbridge/config.yaml (respects XDG_CONFIG_HOME).
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	keyring:
//	  key: "${RENTALBRIDGE_KEYRING_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	api:
//	  request_timeout: "30s"
//
// # Configuration Sections
//
// Top level:
//
//	environment: development   # or production, selects the default base URL
//
// API settings:
//
//	api:
//	  base_url: "http://localhost:8000/api/v1"
//	  request_timeout: "30s"
//
// Credential storage:
//
//	keyring:
//	  path: "~/.local/share/rentalbridge/keyring.db"
//	  key: "${RENTALBRIDGE_KEYRING_KEY}"
//
// Logging:
//
//	logging:
//	  level: info    # debug, info, warn, error
//	  format: text   # text or json
package config
