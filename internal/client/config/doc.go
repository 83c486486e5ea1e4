// Package config loads runtime configuration for the gestor CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL (default http://127.0.0.1:8080/api)
//	-t int      request timeout in seconds (default 10)
//	-d string   SQLite database for the session token (default session.db)
//	-v          verbose logging
//
// # JSON schema
//
// Timeouts use timex.Duration, so values can be strings like "10s" or integer
// nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "server_base_url": "https://gestor.example.cl/api",
//	  "request_timeout": "10s",
//	  "database_path": "/var/lib/gestor/session.db",
//	  "verbose": true
//	}
package config
