package catalog

import (
	"path/filepath"
	"testing"

	"github.com/tanwee/prospectus/internal/course"
)

// newTestDB builds a cache populated from a freshly written catalog file.
func newTestDB(t *testing.T, records []course.Record) *DB {
	t.Helper()
	dir := t.TempDir()

	jsonlPath := filepath.Join(dir, "catalog.jsonl")
	if err := WriteAll(jsonlPath, records); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	db, err := OpenDB(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL: %v", err)
	}
	if n != len(records) {
		t.Fatalf("rebuilt %d records, want %d", n, len(records))
	}
	return db
}

func TestGetByID(t *testing.T) {
	db := newTestDB(t, sampleCatalog())

	rec, err := db.GetByID("sdcm")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec == nil {
		t.Fatal("GetByID(sdcm) returned nil")
	}
	if rec.Code != "SDCM" {
		t.Errorf("code = %q, want SDCM", rec.Code)
	}
	if rec.Volatile.Fee.Freshness != course.FreshnessStaticOnly {
		t.Errorf("fee freshness = %q, want static-only", rec.Volatile.Fee.Freshness)
	}

	missing, err := db.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID(nope): %v", err)
	}
	if missing != nil {
		t.Errorf("GetByID(nope) = %+v, want nil", missing)
	}
}

func TestGetByCode(t *testing.T) {
	db := newTestDB(t, sampleCatalog())

	rec, err := db.GetByCode("SDBIM")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if rec == nil || rec.ID != "sdbim" {
		t.Errorf("GetByCode(SDBIM) = %+v, want sdbim", rec)
	}
}

func TestSearch(t *testing.T) {
	db := newTestDB(t, sampleCatalog())

	hits, err := db.Search("construction", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "sdcm" {
		t.Errorf("Search(construction) = %v, want [sdcm]", courseIDs(hits))
	}

	hits, err = db.Search("diploma", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("Search(diploma) returned %d hits, want 2", len(hits))
	}

	// Queries with FTS metacharacters must not error.
	if _, err := db.Search(`"BIM" + tools`, 10); err != nil {
		t.Errorf("Search with special chars: %v", err)
	}
}

func TestListAllAndCount(t *testing.T) {
	db := newTestDB(t, sampleCatalog())

	all, err := db.ListAll(0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListAll returned %d, want 2", len(all))
	}
	if all[0].ID != "sdbim" {
		t.Errorf("ListAll not ordered by ID: first = %s", all[0].ID)
	}

	limited, err := db.ListAll(1)
	if err != nil {
		t.Fatalf("ListAll(1): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListAll(1) returned %d, want 1", len(limited))
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestCountIndexable(t *testing.T) {
	records := sampleCatalog()
	records = append(records, course.Record{
		ID:          "stub",
		Title:       "Placeholder Course Entry",
		Description: "short",
	})
	db := newTestDB(t, records)

	n, err := db.CountIndexable(50)
	if err != nil {
		t.Fatalf("CountIndexable: %v", err)
	}
	if n != 2 {
		t.Errorf("CountIndexable = %d, want 2", n)
	}
}

func TestRebuildReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "catalog.jsonl")

	db, err := OpenDB(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	if err := WriteAll(jsonlPath, sampleCatalog()); err != nil {
		t.Fatal(err)
	}
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}

	// Shrink the catalog and rebuild; stale rows must go away.
	if err := WriteAll(jsonlPath, sampleCatalog()[:1]); err != nil {
		t.Fatal(err)
	}
	n, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if n != 1 {
		t.Errorf("second rebuild = %d records, want 1", n)
	}

	count, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Count after rebuild = %d, want 1", count)
	}
}

func courseIDs(records []course.Record) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}
