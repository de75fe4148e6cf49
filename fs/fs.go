// Package fs holds all static assets embedded in the binary.
package fs

import "embed"

//go:embed migrations templates
var FS embed.FS
