// Package resources holds files compiled into the binary.
package resources

import "embed"

// CatalogDir is the directory of Catalogs holding message files.
const CatalogDir = "i18n"

//go:embed i18n/*.toml
var Catalogs embed.FS
