package embedded

import (
	"embed"
)

// FS embeds the demo table definitions at build time.
//
//go:embed tables/*.yaml
var FS embed.FS

// Root is the directory inside FS holding the table files.
const Root = "tables"
