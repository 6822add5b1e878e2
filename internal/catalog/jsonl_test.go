package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tanwee/prospectus/internal/course"
)

func sampleCatalog() []course.Record {
	return []course.Record{
		{
			ID:          "sdcm",
			Code:        "SDCM",
			Title:       "Specialist Diploma in Construction Management",
			Description: "A programme covering construction project management, contracts administration and site supervision for working professionals.",
			URL:         "https://example.edu/courses/sdcm",
			Duration:    "12 months",
			Category:    "Built Environment",
		},
		{
			ID:          "sdbim",
			Code:        "SDBIM",
			Title:       "Specialist Diploma in Building Information Modelling",
			Description: "Covers BIM authoring tools, coordination workflows and digital delivery standards used on large building projects.",
			URL:         "https://example.edu/courses/sdbim",
			Duration:    "9 months",
			Category:    "Digitalisation",
		},
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	want := sampleCatalog()

	if err := WriteAll(path, want); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Title != want[i].Title {
			t.Errorf("record %d = %s/%q, want %s/%q", i, got[i].ID, got[i].Title, want[i].ID, want[i].Title)
		}
		if got[i].Volatile.Fee.Freshness != course.FreshnessStaticOnly {
			t.Errorf("record %d fee freshness = %q, want static-only", i, got[i].Volatile.Fee.Freshness)
		}
	}
}

func TestReadAllMissingFile(t *testing.T) {
	records, err := ReadAll(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if records != nil {
		t.Errorf("expected nil records, got %d", len(records))
	}
}

func TestReadAllSkipsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	content := `{"id":"a","title":"Alpha Course Title Here","description":"x"}` + "\n\n" +
		`{"id":"b","title":"Beta Course Title Here","description":"y"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestReadAllBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	if err := os.WriteFile(path, []byte("{not json}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadAll(path); err == nil {
		t.Error("expected parse error for malformed line")
	}
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	for _, rec := range sampleCatalog() {
		if err := Append(path, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestFindByIDAndCode(t *testing.T) {
	records := sampleCatalog()

	if idx, ok := FindByID(records, "sdbim"); !ok || idx != 1 {
		t.Errorf("FindByID(sdbim) = %d, %v", idx, ok)
	}
	if _, ok := FindByID(records, "missing"); ok {
		t.Error("FindByID(missing) should not match")
	}
	if idx, ok := FindByCode(records, "SDCM"); !ok || idx != 0 {
		t.Errorf("FindByCode(SDCM) = %d, %v", idx, ok)
	}
	if _, ok := FindByCode(records, ""); ok {
		t.Error("FindByCode with empty code should not match")
	}
}

func TestGenerateUniqueID(t *testing.T) {
	records := sampleCatalog()

	if id := GenerateUniqueID(records, "fresh"); id != "fresh" {
		t.Errorf("GenerateUniqueID(fresh) = %q", id)
	}
	if id := GenerateUniqueID(records, "sdcm"); id != "sdcm-2" {
		t.Errorf("GenerateUniqueID(sdcm) = %q, want sdcm-2", id)
	}
}
