package public

import "embed"

//go:embed views/*.html css/*.css
var FS embed.FS
