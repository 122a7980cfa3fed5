// Package catalog finds game modules under a directory.
//
// Every *.wasm or *.wasm.gz file is a game whose id is its path relative to
// the directory with the extension removed and slashes as separators:
// "arcade/counter.wasm.gz" is the game "arcade/counter". An optional
// games.toml next to the games adds titles, extra paths and disables
// entries:
//
//	[games.counter]
//	title = "Counter"
//
//	[games.demo]
//	path = "../shared/badapple.wasm.gz"
//
//	[games.broken]
//	disabled = true
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/gzip"

	"github.com/wippyai/tardis-games/errors"
)

// ManifestName is the optional manifest file read by Scan.
const ManifestName = "games.toml"

// MaxModuleSize bounds a decompressed game module.
const MaxModuleSize = 64 << 20

const (
	extWasm   = ".wasm"
	extWasmGz = ".wasm.gz"
)

// Manifest is the games.toml layout.
type Manifest struct {
	Games map[string]Entry `toml:"games"`
}

// Entry configures one game id.
type Entry struct {
	Title    string `toml:"title"`
	Path     string `toml:"path"`
	Disabled bool   `toml:"disabled"`
}

// Game is a module found by Scan.
type Game struct {
	ID    string
	Title string
	Path  string
}

// Compressed reports whether the module is gzipped.
func (g Game) Compressed() bool {
	return strings.HasSuffix(g.Path, extWasmGz)
}

// Catalog maps game ids to modules.
type Catalog struct {
	dir   string
	games map[string]Game
}

// Scan walks dir for game modules. When both id.wasm and id.wasm.gz exist
// the uncompressed module wins.
func Scan(dir string) (*Catalog, error) {
	c := &Catalog{dir: dir, games: make(map[string]Game)}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		id, ok := gameID(dir, path)
		if !ok {
			return nil
		}
		if prev, dup := c.games[id]; dup && !prev.Compressed() {
			return nil
		}
		c.games[id] = Game{ID: id, Title: id, Path: path}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	m, err := LoadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	if m != nil {
		c.apply(m)
	}
	return c, nil
}

// LoadManifest reads a manifest. A missing file yields nil and no error.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return &m, nil
}

func (c *Catalog) apply(m *Manifest) {
	for id, e := range m.Games {
		if e.Disabled {
			delete(c.games, id)
			continue
		}
		g, ok := c.games[id]
		if e.Path != "" {
			path := e.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(c.dir, path)
			}
			g, ok = Game{ID: id, Title: id, Path: path}, true
		}
		if !ok {
			continue
		}
		if e.Title != "" {
			g.Title = e.Title
		}
		c.games[id] = g
	}
}

func gameID(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	switch {
	case strings.HasSuffix(rel, extWasmGz):
		return strings.TrimSuffix(rel, extWasmGz), true
	case strings.HasSuffix(rel, extWasm):
		return strings.TrimSuffix(rel, extWasm), true
	}
	return "", false
}

// Dir returns the scanned directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// IDs returns the game ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.games))
	for id := range c.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Lookup returns the game registered under id.
func (c *Catalog) Lookup(id string) (Game, bool) {
	g, ok := c.games[id]
	return g, ok
}

// Read returns the wasm bytes of a game, decompressed if needed.
func (c *Catalog) Read(id string) ([]byte, error) {
	g, ok := c.games[id]
	if !ok {
		return nil, errors.NotFound(errors.PhaseLoad, "game", id)
	}

	data, err := os.ReadFile(g.Path)
	if err != nil {
		return nil, fmt.Errorf("read game %s: %w", id, err)
	}
	if !g.Compressed() {
		return data, nil
	}
	return Decompress(bytes.NewReader(data))
}

// Decompress inflates a gzipped module, refusing output beyond
// MaxModuleSize.
func Decompress(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Load("gzip header", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, MaxModuleSize+1))
	if err != nil {
		return nil, errors.Load("gzip stream", err)
	}
	if len(data) > MaxModuleSize {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Detail("module exceeds %d bytes", MaxModuleSize).
			Build()
	}
	return data, nil
}
