// Package assets embeds the default lesson content.
package assets

import "embed"

// DefaultContentFile is the path of the bundled lesson inside Content.
const DefaultContentFile = "content/unit22.yaml"

//go:embed content/unit22.yaml
var Content embed.FS
