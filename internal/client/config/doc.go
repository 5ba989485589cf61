// Package config loads runtime configuration for the RepSphere CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (-E/-env-file, or ./.env when present), loaded into the
//     process environment without overriding variables that are already set.
//  3. REPSPHERE_* environment variables (see parseEnv).
//  4. Optional JSON file selected via -c or -config (see parseJson).
//  5. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-m string   backend mode: live or mock
//	-a string   base URL of the analysis API
//	-t int      analysis timeout (seconds)
//	-d string   PostgreSQL DSN for conversation records
//	-b string   S3 bucket holding recordings
//	-e string   S3 endpoint (empty means AWS)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "backend": "live",
//	  "api_url": "http://localhost:3000",
//	  "analysis_timeout": "30s",
//	  "s3_bucket": "recordings"
//	}
package config
