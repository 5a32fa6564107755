// Package claude registers warden's command hooks in Claude Code's
// .claude/settings.local.json.
//
// The package supports:
//   - Loading settings while preserving unknown fields
//   - Checking which warden hooks are registered
//   - Adding missing hooks idempotently
//   - Atomic file writes to prevent corruption
package claude
