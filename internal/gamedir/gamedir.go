// Package gamedir reads and writes the files of an original MineBombers 3.11
// installation: levels, options, the player roster and the high scores.
package gamedir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/minebombers/internal/world"
)

// TitleFile must be present in every installation.
const TitleFile = "TITLEBE.SPY"

// MaxLevels is the number of level files the level picker can hold.
const MaxLevels = 327

// ErrNotGameDir is returned by Open for paths that are not an installation.
var ErrNotGameDir = errors.New("gamedir: not a valid game directory")

// Dir is an opened game installation.
type Dir struct {
	path string
}

// Open validates path as an installation: a directory holding TITLEBE.SPY.
func Open(path string) (*Dir, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: '%s' is not a directory", ErrNotGameDir, path)
	}
	title, err := os.Stat(filepath.Join(path, TitleFile))
	if err != nil || !title.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: '%s' has no %s file", ErrNotGameDir, path, TitleFile)
	}
	return &Dir{path: path}, nil
}

// Path returns the installation root.
func (d *Dir) Path() string {
	return d.path
}

// File returns the path of a file inside the installation.
func (d *Dir) File(name string) string {
	return filepath.Join(d.path, name)
}

// Registered returns the name the copy is registered to, or "" when the
// installation is unregistered.
func (d *Dir) Registered() string {
	data, err := os.ReadFile(d.File("register.dat"))
	if err != nil || len(data) == 0 {
		return ""
	}
	n := int(data[0])
	if n >= 26 || n > len(data)-1 {
		return ""
	}
	return decodeName(data[1 : 1+n])
}

// Levels lists the tournament level files (*.MNE), sorted by name.
func (d *Dir) Levels() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("gamedir: list levels: %w", err)
	}
	var levels []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".mne") {
			levels = append(levels, e.Name())
		}
	}
	slices.Sort(levels)
	if len(levels) > MaxLevels {
		levels = levels[:MaxLevels]
	}
	return levels, nil
}

// Level loads a level file by name (relative to the installation) or by
// absolute path.
func (d *Dir) Level(name string) (*world.LevelMap, error) {
	path := name
	if !filepath.IsAbs(name) {
		path = d.File(name)
	}
	return LoadLevel(path)
}

// CampaignLevel loads LEVEL<n>.MNL.
func (d *Dir) CampaignLevel(n int) (*world.LevelMap, error) {
	return d.Level(fmt.Sprintf("LEVEL%d.MNL", n))
}

// HasCampaignLevel reports whether LEVEL<n>.MNL exists.
func (d *Dir) HasCampaignLevel(n int) bool {
	_, err := os.Stat(d.File(fmt.Sprintf("LEVEL%d.MNL", n)))
	return err == nil
}

// LoadLevel reads a level file.
func LoadLevel(path string) (*world.LevelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gamedir: read level: %w", err)
	}
	m, err := world.ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("gamedir: %s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// SaveLevel writes a level file.
func SaveLevel(path string, m *world.LevelMap) error {
	if err := os.WriteFile(path, m.Bytes(), 0o644); err != nil { //#nosec G306 -- game data, not secret
		return fmt.Errorf("gamedir: write level: %w", err)
	}
	return nil
}
