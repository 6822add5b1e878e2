package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/tanwee/prospectus/internal/course"
)

// DB wraps the ephemeral SQLite cache over the catalog JSONL.
type DB struct {
	db *sql.DB
}

// selectCourseFields contains the standard field list for SELECT queries.
const selectCourseFields = `id, code, title, description, url,
	duration, delivery_mode, category,
	fee_amount, fee_currency, next_intake, requirements`

// OpenDB opens or creates the SQLite cache at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			code TEXT,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			url TEXT,
			duration TEXT,
			delivery_mode TEXT,
			category TEXT,
			fee_amount REAL,
			fee_currency TEXT,
			next_intake TEXT,
			requirements TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_courses_code ON courses(code) WHERE code IS NOT NULL AND code != '';

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS courses_fts USING fts5(
			id,
			code,
			title,
			description,
			category
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the cache and rebuilds it from the catalog file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	records, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM courses"); err != nil {
		return 0, fmt.Errorf("clearing courses table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM courses_fts"); err != nil {
		return 0, fmt.Errorf("clearing courses_fts table: %w", err)
	}

	courseStmt, err := d.db.Prepare(`
		INSERT INTO courses (
			id, code, title, description, url,
			duration, delivery_mode, category,
			fee_amount, fee_currency, next_intake, requirements
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing courses insert: %w", err)
	}
	defer courseStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO courses_fts (id, code, title, description, category)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, rec := range records {
		_, err = courseStmt.Exec(
			rec.ID, nullableStringValue(rec.Code), rec.Title, rec.Description, nullableStringValue(rec.URL),
			nullableStringValue(rec.Duration), nullableStringValue(rec.DeliveryMode), nullableStringValue(rec.Category),
			nullableFloat(rec.Volatile.Fee.Amount), nullableStringValue(rec.Volatile.Fee.Currency),
			nullableStringValue(rec.Volatile.NextIntake.Value), nullableStringValue(rec.Volatile.Requirements.Value),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting course %s: %w", rec.ID, err)
		}

		_, err = ftsStmt.Exec(rec.ID, rec.Code, rec.Title, rec.Description, rec.Category)
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", rec.ID, err)
		}
	}

	return len(records), nil
}

// GetByID retrieves a course by its ID. Returns nil if not found.
func (d *DB) GetByID(id string) (*course.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectCourseFields+` FROM courses WHERE id = ?`, id)
	return scanCourse(row)
}

// GetByCode retrieves a course by its catalog code. Returns nil if not found.
func (d *DB) GetByCode(code string) (*course.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectCourseFields+` FROM courses WHERE code = ?`, code)
	return scanCourse(row)
}

// Search performs a full-text search over codes, titles, descriptions
// and categories.
func (d *DB) Search(query string, limit int) ([]course.Record, error) {
	ftsQuery := prepareFTSQuery(query)

	rows, err := d.db.Query(`
		SELECT `+selectCourseFields+`
		FROM courses
		WHERE id IN (SELECT id FROM courses_fts WHERE courses_fts MATCH ?)
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// ListAll returns all courses ordered by ID, optionally limited.
func (d *DB) ListAll(limit int) ([]course.Record, error) {
	query := `SELECT ` + selectCourseFields + ` FROM courses ORDER BY id`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// Count returns the total number of courses.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM courses").Scan(&count)
	return count, err
}

// CountIndexable returns the number of courses whose descriptions are
// long enough to embed.
func (d *DB) CountIndexable(minLength int) (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM courses WHERE LENGTH(description) >= ?", minLength).Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCourse(s scanner) (*course.Record, error) {
	var rec course.Record
	var code, url, duration, deliveryMode, category sql.NullString
	var feeCurrency, nextIntake, requirements sql.NullString
	var feeAmount sql.NullFloat64

	err := s.Scan(
		&rec.ID, &code, &rec.Title, &rec.Description, &url,
		&duration, &deliveryMode, &category,
		&feeAmount, &feeCurrency, &nextIntake, &requirements,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.Code = code.String
	rec.URL = url.String
	rec.Duration = duration.String
	rec.DeliveryMode = deliveryMode.String
	rec.Category = category.String
	rec.Volatile.Fee.Amount = feeAmount.Float64
	rec.Volatile.Fee.Currency = feeCurrency.String
	rec.Volatile.NextIntake.Value = nextIntake.String
	rec.Volatile.Requirements.Value = requirements.String
	rec.NormalizeFreshness()

	return &rec, nil
}

func scanCourses(rows *sql.Rows) ([]course.Record, error) {
	var records []course.Record
	for rows.Next() {
		rec, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, rows.Err()
}

func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
