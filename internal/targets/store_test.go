package targets

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `market_names:
  DE: Germany
  UK: United Kingdom
  POL: Poland

targets:
  DE:
    FAEM: 120
    Airfryer: 80
  uk:
    FAEM: 60
  POL:
    RVC: 40
`

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write targets file: %v", err)
	}
	return path
}

func TestStore_Target(t *testing.T) {
	store, err := Load(writeTargets(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cases := []struct {
		market, category string
		want             int
	}{
		{"DE", "FAEM", 120},
		{"DE", "Airfryer", 80},
		{"UK", "FAEM", 60}, // lowercase market key in the file
		{"uk", "FAEM", 60}, // lowercase lookup
		{"POL", "RVC", 40},
		{"DE", "Blender", 0}, // category without a target
		{"FR", "FAEM", 0},    // market without targets
	}
	for _, tc := range cases {
		if got := store.Target(tc.market, tc.category); got != tc.want {
			t.Errorf("Target(%q, %q) = %d, want %d", tc.market, tc.category, got, tc.want)
		}
	}
}

func TestStore_MarketName(t *testing.T) {
	store, err := Load(writeTargets(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := store.MarketName("DE"); got != "Germany" {
		t.Errorf("MarketName(DE) = %q", got)
	}
	if got := store.MarketName("POL"); got != "Poland" {
		t.Errorf("MarketName(POL) = %q", got)
	}
	// Unmapped codes fall back to the code itself.
	if got := store.MarketName("TR"); got != "TR" {
		t.Errorf("MarketName(TR) = %q", got)
	}
}

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if got := store.Target("DE", "FAEM"); got != 0 {
		t.Errorf("empty store Target = %d, want 0", got)
	}
	if got := store.MarketName("DE"); got != "DE" {
		t.Errorf("empty store MarketName = %q, want DE", got)
	}
}

func TestLoad_EmptyPathIsEmptyStore(t *testing.T) {
	store, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if len(store.Markets()) != 0 {
		t.Errorf("expected no markets, got %v", store.Markets())
	}
}
