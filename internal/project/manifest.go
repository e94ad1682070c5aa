// Package project loads the Cinderfile project manifest: the unit list,
// the output directory, and the tool-version constraint a project
// declares with `requires`.
package project

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultManifestName is the file cinderc looks for in project mode.
const DefaultManifestName = "Cinderfile"

// Manifest describes one Cinder project.
type Manifest struct {
	Name     string   // project name
	Requires string   // semver constraint on the tool version, may be empty
	OutDir   string   // output directory for generated host files
	Units    []string // source files, relative to the manifest
	Dir      string   // directory containing the manifest
}

// Load reads and parses a manifest file. The format is line-based:
// `key = value` entries plus one `unit <path>` line per source file.
// Blank lines and `#` comments are ignored.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &Manifest{OutDir: ".", Dir: filepath.Dir(path)}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "unit "); ok {
			unit := strings.TrimSpace(rest)
			if unit == "" {
				return nil, fmt.Errorf("%s:%d: unit entry without a path", path, lineNo)
			}
			m.Units = append(m.Units, unit)
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected `key = value` or `unit <path>`", path, lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch key {
		case "name":
			m.Name = value
		case "requires":
			m.Requires = value
		case "output":
			m.OutDir = value
		default:
			return nil, fmt.Errorf("%s:%d: unknown manifest key %q", path, lineNo, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(m.Units) == 0 {
		return nil, fmt.Errorf("%s: manifest declares no units", path)
	}
	return m, nil
}

// CheckToolVersion validates the manifest's `requires` constraint against
// the running tool version.
func (m *Manifest) CheckToolVersion(version string) error {
	if m.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", m.Requires, err)
	}
	current, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", version, err)
	}
	if !constraint.Check(current) {
		return fmt.Errorf("project requires cinderc %s, this is %s", m.Requires, version)
	}
	return nil
}

// UnitPath resolves a unit entry relative to the manifest directory.
func (m *Manifest) UnitPath(unit string) string {
	if filepath.IsAbs(unit) {
		return unit
	}
	return filepath.Join(m.Dir, unit)
}

// OutputPath maps a unit to its generated host file inside OutDir,
// swapping the extension for `.rs`.
func (m *Manifest) OutputPath(unit string) string {
	base := filepath.Base(unit)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	dir := m.OutDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(m.Dir, dir)
	}
	return filepath.Join(dir, base+".rs")
}
