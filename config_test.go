package trackeval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {

	cfg := DefaultConfig()

	wantCategories := []string{
		"pedestrian", "rider", "car", "truck", "bus", "train", "motorcycle", "bicycle",
	}

	if diff := cmp.Diff(wantCategories, cfg.CategoryNames()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}

	wantSupers := []SuperClass{
		{Name: "human", Members: []string{"pedestrian", "rider"}},
		{Name: "vehicle", Members: []string{"car", "truck", "bus", "train"}},
		{Name: "bike", Members: []string{"motorcycle", "bicycle"}},
	}

	if diff := cmp.Diff(wantSupers, cfg.SuperClasses()); diff != "" {
		t.Errorf("super classes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {

	content := `categories:
  - name: sedan
    supercategory: vehicle
  - name: lorry
    supercategory: vehicle
  - name: person
`

	file := filepath.Join(t.TempDir(), "schema.yml")

	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("error writing config: %v", err)
	}

	cfg, err := LoadConfig(file)

	if err != nil {
		t.Fatalf("LoadConfig returned an error: %v", err)
	}

	wantCategories := []string{"sedan", "lorry", "person"}

	if diff := cmp.Diff(wantCategories, cfg.CategoryNames()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}

	supers := cfg.SuperClasses()

	if len(supers) != 1 || supers[0].Name != "vehicle" || len(supers[0].Members) != 2 {
		t.Errorf("super classes mismatch: %+v", supers)
	}
}

func TestLoadConfigErrors(t *testing.T) {

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.yml")

	if err := os.WriteFile(empty, []byte("categories: []\n"), 0644); err != nil {
		t.Fatalf("error writing config: %v", err)
	}

	if _, err := LoadConfig(empty); err == nil {
		t.Errorf("expected error for config without categories")
	}
}
