// Package history persists generated and optimized plans in SQLite.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when no plan matches an id or prefix.
	ErrNotFound = errors.New("plan not found")
	// ErrAmbiguous is returned when an id prefix matches more than one plan.
	ErrAmbiguous = errors.New("plan id prefix is ambiguous")
)

// Kind records how a plan was produced.
type Kind string

const (
	KindGenerated Kind = "generated"
	KindOptimized Kind = "optimized"
)

// Record is one stored plan.
type Record struct {
	ID       string    `json:"id"`
	ParentID string    `json:"parentId,omitempty"`
	Kind     Kind      `json:"kind"`
	Topic    string    `json:"topic,omitempty"`
	Duration string    `json:"duration,omitempty"`
	Request  string    `json:"request,omitempty"` // JSON-encoded generation request
	Markers  string    `json:"markers"`           // vocabulary name the text was parsed with
	Text     string    `json:"text"`
	Summary  string    `json:"summary,omitempty"`
	Created  time.Time `json:"createdAt"`
}

// Title returns the first non-blank line of the plan text.
func (r *Record) Title() string {
	for line := range strings.SplitSeq(r.Text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// Store is a SQLite-backed plan history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the history database at path.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		parent_id TEXT,                     -- plan this one was optimized from
		kind TEXT NOT NULL,                 -- generated, optimized
		topic TEXT,
		duration TEXT,
		request_json TEXT,
		markers TEXT NOT NULL,
		text TEXT NOT NULL,
		summary TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_created ON plans(created_at);
	CREATE INDEX IF NOT EXISTS idx_plans_parent ON plans(parent_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts r, assigning an id and creation time when unset.
func (s *Store) Save(r *Record) error {
	if r.ID == "" {
		r.ID = "plan-" + uuid.NewString()
	}
	if r.Kind == "" {
		r.Kind = KindGenerated
	}
	if r.Created.IsZero() {
		r.Created = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO plans (id, parent_id, kind, topic, duration, request_json, markers, text, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, nullString(r.ParentID), string(r.Kind), r.Topic, r.Duration, r.Request,
		r.Markers, r.Text, r.Summary, r.Created.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// timeLayout has fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT id, parent_id, kind, topic, duration, request_json, markers, text, summary, created_at FROM plans`

// Get returns the plan whose id equals ref, or the single plan whose id
// starts with ref.
func (s *Store) Get(ref string) (*Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("plan id is required")
	}

	r, err := scanRecord(s.db.QueryRow(selectColumns+` WHERE id = ?`, ref))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query plan: %w", err)
	}

	rows, err := s.db.Query(selectColumns+` WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escapeLike(ref)+"%")
	if err != nil {
		return nil, fmt.Errorf("query plan prefix: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		matches = append(matches, r)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
	}
}

// List returns up to limit plans, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]*Record, error) {
	query := selectColumns + ` ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out = append(out, r)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return out, nil
}

// SetSummary stores the summary for plan id.
func (s *Store) SetSummary(id, summary string) error {
	res, err := s.db.Exec(`UPDATE plans SET summary = ? WHERE id = ?`, summary, id)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	return expectOne(res, id)
}

// Delete removes plan id. Plans optimized from it keep their parent id.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return expectOne(res, id)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var r Record
	var parentID, topic, duration, request, summary sql.NullString
	var kind, created string
	if err := row.Scan(&r.ID, &parentID, &kind, &topic, &duration, &request, &r.Markers, &r.Text, &summary, &created); err != nil {
		return nil, err
	}
	r.ParentID = parentID.String
	r.Kind = Kind(kind)
	r.Topic = topic.String
	r.Duration = duration.String
	r.Request = request.String
	r.Summary = summary.String
	r.Created, _ = time.Parse(timeLayout, created)
	return &r, nil
}

func expectOne(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
