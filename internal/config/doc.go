// Package config loads server, database, auth and LLM settings from SCRY_
// environment variables and an optional config.yaml, applies defaults, and
// validates the result before anything else starts.
package config
