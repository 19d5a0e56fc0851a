package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	content := `sites:
  - site_name: invites
    site_url: https://invites.example
    cookie: a=1
  - site_name: ""
    site_url: https://nameless.example
    cookie: b=2
  - site_name: other
    site_url: https://other.example
    cookie: c=3
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write site list: %v", err)
	}

	sites, err := LoadSites(path)
	if err != nil {
		t.Fatalf("LoadSites failed: %v", err)
	}
	// Entries without a name or url are dropped
	if len(sites) != 2 {
		t.Fatalf("Expected 2 valid sites, got %d", len(sites))
	}
	if sites[0].Name != "invites" || sites[0].URL != "https://invites.example" || sites[0].Cookie != "a=1" {
		t.Errorf("Unexpected first site: %+v", sites[0])
	}
	if sites[1].Name != "other" {
		t.Errorf("Unexpected second site: %+v", sites[1])
	}
}

func TestLoadSitesMissingFile(t *testing.T) {
	sites, err := LoadSites(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Missing file should not error, got %v", err)
	}
	if len(sites) != 0 {
		t.Errorf("Missing file should yield an empty list, got %v", sites)
	}
}

func TestLoadSitesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	if err := os.WriteFile(path, []byte("sites: [unclosed\n"), 0600); err != nil {
		t.Fatalf("Failed to write site list: %v", err)
	}

	sites, err := LoadSites(path)
	if err == nil {
		t.Fatal("Expected parse error for malformed file")
	}
	if len(sites) != 0 {
		t.Errorf("Malformed file should yield an empty list, got %v", sites)
	}
}
