// Package constants centralizes defaults shared across the CLI and internal packages.
//
// File permissions, the answer-store key, the answer scale ceilings and the
// per-report list limits live here so cmd/ and internal/ can reference them
// without introducing import cycles.
package constants
