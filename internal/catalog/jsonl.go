// Package catalog handles course persistence in JSONL and the ephemeral
// SQLite cache. The JSONL file is the source of truth; the SQLite
// database is rebuilt from it and can be deleted at any time.
package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tanwee/prospectus/internal/course"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads all courses from a JSONL file. A missing file is an
// empty catalog, not an error.
func ReadAll(path string) ([]course.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	var records []course.Record
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec course.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		rec.NormalizeFreshness()
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	return records, nil
}

// WriteAll writes all courses to a JSONL file, replacing existing content.
func WriteAll(path string, records []course.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating catalog file: %w", err)
	}
	defer f.Close()

	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding course %d: %w", i, err)
		}

		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing course %d: %w", i, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return nil
}

// Append adds a course to the end of a JSONL file.
func Append(path string, rec course.Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening catalog file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding course: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing course: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// FindByID searches for a course by ID.
func FindByID(records []course.Record, id string) (int, bool) {
	for i, rec := range records {
		if rec.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindByCode searches for a course by its catalog code.
func FindByCode(records []course.Record, code string) (int, bool) {
	if code == "" {
		return -1, false
	}
	for i, rec := range records {
		if rec.Code == code {
			return i, true
		}
	}
	return -1, false
}

// GenerateUniqueID returns an ID that doesn't conflict with existing courses.
// If the base ID exists, appends -2, -3, etc.
func GenerateUniqueID(records []course.Record, baseID string) string {
	if _, found := FindByID(records, baseID); !found {
		return baseID
	}

	// Start at 2: baseID is taken, so first duplicate becomes baseID-2
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", baseID, i)
		if _, found := FindByID(records, candidate); !found {
			return candidate
		}
	}
}
