// Package migrations şema migration dosyalarını binary'ye gömer.
package migrations

import "embed"

// FS *.up.sql ve *.down.sql dosyaları
//
//go:embed *.sql
var FS embed.FS
