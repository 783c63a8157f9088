package public

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var static embed.FS

// StaticFS serves the site assets, including the shared element.html partial.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}
