package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
# demo project
name = demo
requires = ">= 0.3.0"
output = "gen"

unit src/main.cn
unit src/util.cn
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.Name != "demo" {
		t.Errorf("name = %q", m.Name)
	}
	if m.Requires != ">= 0.3.0" {
		t.Errorf("requires = %q", m.Requires)
	}
	if m.OutDir != "gen" {
		t.Errorf("output = %q", m.OutDir)
	}
	if len(m.Units) != 2 || m.Units[0] != "src/main.cn" {
		t.Errorf("units = %v", m.Units)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, "name = x\nbogus = 1\nunit a.cn\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("unknown key not rejected: %v", err)
	}
}

func TestLoadRequiresUnits(t *testing.T) {
	path := writeManifest(t, "name = empty\n")
	if _, err := Load(path); err == nil {
		t.Fatal("manifest without units not rejected")
	}
}

func TestCheckToolVersion(t *testing.T) {
	tests := []struct {
		requires string
		version  string
		ok       bool
	}{
		{"", "0.1.0", true},
		{">= 0.3.0", "0.3.1", true},
		{">= 0.3.0", "0.2.9", false},
		{"^0.3.0", "0.3.5", true},
		{"not a constraint", "0.3.1", false},
	}

	for i, tt := range tests {
		m := &Manifest{Requires: tt.requires}
		err := m.CheckToolVersion(tt.version)
		if (err == nil) != tt.ok {
			t.Errorf("tests[%d]: requires %q with %s: err = %v", i, tt.requires, tt.version, err)
		}
	}
}

func TestPaths(t *testing.T) {
	m := &Manifest{Dir: "/proj", OutDir: "gen"}

	if got := m.UnitPath("src/main.cn"); got != filepath.Join("/proj", "src/main.cn") {
		t.Errorf("UnitPath = %q", got)
	}
	if got := m.OutputPath("src/main.cn"); got != filepath.Join("/proj", "gen", "main.rs") {
		t.Errorf("OutputPath = %q", got)
	}
}
