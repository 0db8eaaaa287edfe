package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/maruel/natural"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/seekstruth-backend/internal/domain"
)

//go:embed data/*.json
var embedded embed.FS

// Default loads the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return LoadFS(embedded, "data")
}

// LoadDir loads every catalog file in dir.
func LoadDir(dir string) (*Catalog, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads *.json, *.yaml and *.yml files under root. Files whose base name
// starts with "sayings" or "quotes" hold quotes; every other file holds either a
// list of chapters or a single chapter. Files are read in natural name order so
// "chapter2" sorts before "chapter10".
func LoadFS(fsys fs.FS, root string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", root, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isCatalogFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(natural.StringSlice(names))

	var (
		chapters []domain.Chapter
		quotes   []domain.Quote
	)
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, path.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		if isQuoteFile(name) {
			var qs []domain.Quote
			if err := decode(name, raw, &qs); err != nil {
				return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
			}
			quotes = append(quotes, qs...)
			continue
		}
		chs, err := decodeChapters(name, raw)
		if err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
		}
		chapters = append(chapters, chs...)
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("catalog: no chapters found in %q", root)
	}
	return New(chapters, quotes), nil
}

func decodeChapters(name string, raw []byte) ([]domain.Chapter, error) {
	trimmed := bytes.TrimSpace(raw)
	isList := len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '-')
	if isList {
		var chs []domain.Chapter
		if err := decode(name, raw, &chs); err != nil {
			return nil, err
		}
		return chs, nil
	}
	var ch domain.Chapter
	if err := decode(name, raw, &ch); err != nil {
		return nil, err
	}
	return []domain.Chapter{ch}, nil
}

func decode(name string, raw []byte, dst any) error {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(raw, dst)
	default:
		return json.Unmarshal(raw, dst)
	}
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return !strings.HasPrefix(name, ".")
	}
	return false
}

func isQuoteFile(name string) bool {
	base := strings.ToLower(name)
	return strings.HasPrefix(base, "sayings") || strings.HasPrefix(base, "quotes")
}
