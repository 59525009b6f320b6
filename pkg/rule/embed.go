package rule

import "embed"

// builtinFS embeds the default security rules and the default placeholder
// allow-list.
//
//go:embed rules/*.yml
var builtinFS embed.FS
