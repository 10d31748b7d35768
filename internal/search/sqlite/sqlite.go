// Package sqlite implements search.Client over a local libSQL database for
// offline development. It understands the subset of the query DSL the
// assembler produces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/LeonardoGonSantos/tracectl/internal/query"
	"github.com/LeonardoGonSantos/tracectl/internal/search"
)

// Sentinel errors.
var (
	ErrStorage           = errors.New("storage error")
	ErrUnsupportedClause = errors.New("unsupported query clause")
	ErrInvalidDocument   = errors.New("invalid document")
)

// Store keeps documents in one table, partitioned by index name.
type Store struct {
	db *sql.DB
}

var _ search.Client = (*Store)(nil)

// New opens (or creates) tracectl.db under dataDir.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", ErrStorage, err)
	}

	dbPath := filepath.Join(dataDir, "tracectl.db")
	db, err := sql.Open("libsql", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", ErrStorage, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling WAL mode: %v", ErrStorage, err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			idx    TEXT NOT NULL,
			ts     INTEGER NOT NULL,
			source TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_idx_ts ON documents(idx, ts DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", ErrStorage, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Index stores source under index. The document must carry an RFC 3339
// @timestamp.
func (s *Store) Index(ctx context.Context, index string, source map[string]any) error {
	raw, ok := source[query.TimestampField].(string)
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrInvalidDocument, query.TimestampField)
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, query.TimestampField, err)
	}

	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("%w: encoding document: %v", ErrInvalidDocument, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (idx, ts, source) VALUES (?, ?, ?)",
		index, ts.UTC().UnixNano(), string(data),
	)
	if err != nil {
		return fmt.Errorf("%w: inserting document: %v", ErrStorage, err)
	}
	return nil
}

// Count returns the number of documents stored under index.
func (s *Store) Count(ctx context.Context, index string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE idx = ?", index).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: counting documents: %v", ErrStorage, err)
	}
	return n, nil
}

// Search runs body against index, newest first.
func (s *Store) Search(ctx context.Context, index string, body query.Body) (*search.Result, error) {
	where := []string{"idx = ?"}
	args := []any{index}

	conds, condArgs, err := translate(body.Query)
	if err != nil {
		return nil, err
	}
	where = append(where, conds...)
	args = append(args, condArgs...)
	filter := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents"+filter, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%w: counting matches: %v", ErrStorage, err)
	}

	q := "SELECT id, source FROM documents" + filter + " ORDER BY ts DESC, id DESC"
	if body.Size > 0 {
		q += fmt.Sprintf(" LIMIT %d", body.Size)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: searching documents: %v", ErrStorage, err)
	}
	defer rows.Close()

	hits := []search.Hit{}
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", ErrStorage, err)
		}
		var src map[string]any
		if err := json.Unmarshal([]byte(raw), &src); err != nil {
			return nil, fmt.Errorf("%w: decoding document %d: %v", ErrStorage, id, err)
		}
		hits = append(hits, search.Hit{Index: index, ID: strconv.FormatInt(id, 10), Source: src})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rows: %v", ErrStorage, err)
	}

	return &search.Result{Hits: &search.Hits{Total: &search.Total{Value: total}, Hits: hits}}, nil
}

// translate turns a match_all or bool.must query into SQL conditions.
func translate(q query.Clause) ([]string, []any, error) {
	if len(q) == 0 {
		return nil, nil, nil
	}
	if _, ok := q["match_all"]; ok {
		return nil, nil, nil
	}
	b, ok := asMap(q["bool"])
	if !ok || len(q) != 1 {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedClause, keys(q))
	}
	must, ok := b["must"].([]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: bool without must", ErrUnsupportedClause)
	}

	var conds []string
	var args []any
	for _, item := range must {
		c, ok := asMap(item)
		if !ok || len(c) != 1 {
			return nil, nil, fmt.Errorf("%w: malformed clause %v", ErrUnsupportedClause, item)
		}
		switch {
		case c["term"] != nil:
			cond, targs, err := termCondition(c["term"])
			if err != nil {
				return nil, nil, err
			}
			conds = append(conds, cond)
			args = append(args, targs...)
		case c["range"] != nil:
			rc, rargs, err := rangeConditions(c["range"])
			if err != nil {
				return nil, nil, err
			}
			conds = append(conds, rc...)
			args = append(args, rargs...)
		default:
			return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedClause, keys(c))
		}
	}
	return conds, args, nil
}

func termCondition(v any) (string, []any, error) {
	m, ok := asMap(v)
	if !ok || len(m) != 1 {
		return "", nil, fmt.Errorf("%w: term must name one field", ErrUnsupportedClause)
	}
	for field, value := range m {
		return "json_extract(source, ?) = ?", []any{jsonPath(field), fmt.Sprint(value)}, nil
	}
	return "", nil, nil
}

func rangeConditions(v any) ([]string, []any, error) {
	m, ok := asMap(v)
	if !ok || len(m) != 1 {
		return nil, nil, fmt.Errorf("%w: range must name one field", ErrUnsupportedClause)
	}
	bounds, ok := asMap(m[query.TimestampField])
	if !ok {
		return nil, nil, fmt.Errorf("%w: range on %s", ErrUnsupportedClause, keys(m))
	}

	var conds []string
	var args []any
	for _, op := range []struct{ key, sql string }{{"gte", ">="}, {"gt", ">"}, {"lte", "<="}, {"lt", "<"}} {
		raw, ok := bounds[op.key]
		if !ok {
			continue
		}
		s, _ := raw.(string)
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: range bound %s=%v", ErrUnsupportedClause, op.key, raw)
		}
		conds = append(conds, "ts "+op.sql+" ?")
		args = append(args, t.UTC().UnixNano())
	}
	return conds, args, nil
}

// jsonPath quotes each dotted segment so keys like "@timestamp" survive.
func jsonPath(field string) string {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		parts[i] = strconv.Quote(p)
	}
	return "$." + strings.Join(parts, ".")
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case query.Clause:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

func keys(m map[string]any) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return strings.Join(out, ",")
}
