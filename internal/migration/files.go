package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// 000001_create_art_tables.up.sql
var fileNamePattern = regexp.MustCompile(`^(\d{6,14})_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

// loadMigrations fs içindeki migration dosyalarını version sırasıyla okur
func loadMigrations(fsys fs.FS, requireDown bool) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("migration dosyaları listelenemedi: %w", err)
	}

	byVersion := make(map[int64]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := fileNamePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			if strings.HasSuffix(entry.Name(), ".sql") {
				log.Warn().Str("file", entry.Name()).Msg("Migration dosya adı formata uymuyor, atlanıyor")
			}
			continue
		}

		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("geçersiz version %s: %w", matches[1], err)
		}

		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("%s okunamadı: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: matches[2]}
			byVersion[version] = m
		} else if m.Name != matches[2] {
			return nil, fmt.Errorf("version %d için iki farklı isim: %s, %s", version, m.Name, matches[2])
		}

		if matches[3] == "up" {
			m.UpSQL = string(content)
			m.UpChecksum = checksum(content)
			m.Description = extractDescription(m.UpSQL)
		} else {
			m.DownSQL = string(content)
			m.DownChecksum = checksum(content)
			m.HasDownFile = true
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpChecksum == "" {
			return nil, fmt.Errorf("version %d için UP dosyası yok", m.Version)
		}
		if requireDown && !m.HasDownFile {
			return nil, fmt.Errorf("version %d için DOWN dosyası zorunlu", m.Version)
		}
		migrations = append(migrations, *m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// extractDescription dosyanın başındaki ilk yorum satırı
func extractDescription(sqlContent string) string {
	for _, line := range strings.Split(sqlContent, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "--") {
			break
		}
		desc := strings.TrimSpace(strings.TrimPrefix(line, "--"))
		desc = strings.TrimSpace(strings.TrimPrefix(desc, "Description:"))
		if desc != "" {
			return desc
		}
	}
	return ""
}
