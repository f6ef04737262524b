// Package static embeds the built assets served under /static/.
package static

import "embed"

//go:embed dist
var FS embed.FS
