// Package driving defines the interfaces the CLI, MCP server and TUI use
// to reach the core. Implementations live in internal/core/services.
package driving
