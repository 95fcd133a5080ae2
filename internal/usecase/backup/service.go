package backup

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

const formatVersion = 1

var errNoTablesSelected = errors.New("backup: no tables selected")

// tableSpec declares one exportable table. The schema is small and
// stable, so the specs are written out by hand instead of derived.
type tableSpec struct {
	Name     string
	Columns  []string
	Conflict []string // upsert conflict target
}

var tables = []tableSpec{
	{
		Name:     "items",
		Columns:  []string{"id", "ref", "domain", "domain_group", "category", "tier", "created_at"},
		Conflict: []string{"id"},
	},
	{
		Name: "review_cards",
		Columns: []string{
			"id", "item_id", "ease_factor", "interval_days", "repetitions",
			"next_review_date", "last_review_date", "total_reviews", "correct_reviews", "created_at",
		},
		Conflict: []string{"id"},
	},
	{
		Name: "difficulty_profiles",
		Columns: []string{
			"id", "domain", "activity", "difficulty",
			"consecutive_correct", "consecutive_wrong", "total_attempts", "last_updated",
		},
		Conflict: []string{"id"},
	},
	{
		Name: "practice_log",
		Columns: []string{
			"id", "date", "session_type", "duration_minutes", "items_learned", "items_reviewed",
		},
		Conflict: []string{"id"},
	},
}

// Service dumps and restores the scheduler's tables as JSON lines: one
// meta record followed by one record per row. Import runs in a single
// transaction so a broken dump never leaves a half-restored store.
type Service struct {
	db     *sql.DB
	driver string
}

// NewService constructs a backup service over an open database handle.
func NewService(db *sql.DB, driver string) (*Service, error) {
	switch driver {
	case "sqlite3", "pgx":
	default:
		return nil, fmt.Errorf("backup: unsupported driver %q", driver)
	}
	return &Service{db: db, driver: driver}, nil
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	Tables     []string       `json:"tables,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

type rawRecord struct {
	Type      string          `json:"type"`
	Version   int             `json:"version"`
	Tables    []string        `json:"tables"`
	RowCounts map[string]int  `json:"row_counts"`
	Payload   json.RawMessage `json:"payload"`
}

// Export writes the selected tables to w, all tables when names is
// empty.
func (s *Service) Export(ctx context.Context, w io.Writer, names []string) error {
	selected, err := selectTables(names)
	if err != nil {
		return err
	}

	counts := make(map[string]int, len(selected))
	for _, tbl := range selected {
		var count int
		q := fmt.Sprintf("SELECT COUNT(*) FROM %s", tbl.Name)
		if err := s.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
			return fmt.Errorf("count table %s: %w", tbl.Name, err)
		}
		counts[tbl.Name] = count
	}

	writer := bufio.NewWriter(w)
	now := time.Now().UTC()
	meta := record{
		Type:       "meta",
		Version:    formatVersion,
		ExportedAt: &now,
		Tables:     tableNames(selected),
		RowCounts:  counts,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	for _, tbl := range selected {
		if err := s.exportTable(ctx, tbl, writer); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// Import restores a dump written by Export. The whole restore is one
// transaction; any bad record rolls everything back.
func (s *Service) Import(ctx context.Context, r io.Reader, names []string) error {
	selected, err := selectTables(names)
	if err != nil {
		return err
	}
	filter := make(map[string]tableSpec, len(selected))
	for _, tbl := range selected {
		filter[tbl.Name] = tbl
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	br := bufio.NewReader(r)
	var (
		metaSeen bool
		meta     rawRecord
		restored = make(map[string]bool)
	)
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read backup: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			switch rec.Type {
			case "meta":
				metaSeen = true
				meta = rec
			default:
				tbl, ok := filter[rec.Type]
				if !ok {
					break
				}
				if len(rec.Payload) == 0 {
					return fmt.Errorf("backup: missing payload for table %s", rec.Type)
				}
				if err := s.importRow(ctx, tx, tbl, rec.Payload); err != nil {
					return err
				}
				restored[tbl.Name] = true
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return errors.New("backup: missing meta record")
	}
	if meta.Version != formatVersion {
		return fmt.Errorf("backup: unsupported format version %d", meta.Version)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	commit = true

	return s.syncSequences(ctx, restored)
}

func (s *Service) exportTable(ctx context.Context, tbl tableSpec, w io.Writer) error {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(tbl.Columns, ", "), tbl.Name, tbl.Columns[0])
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query %s: %w", tbl.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		values := make([]any, len(tbl.Columns))
		dest := make([]any, len(tbl.Columns))
		for i := range dest {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan %s: %w", tbl.Name, err)
		}
		payload := make(map[string]any, len(tbl.Columns))
		for i, name := range tbl.Columns {
			payload[name] = convertDBValue(values[i])
		}
		if err := writeRecord(w, record{Type: tbl.Name, Payload: payload}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", tbl.Name, err)
	}
	return nil
}

func (s *Service) importRow(ctx context.Context, tx *sql.Tx, tbl tableSpec, payload json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode payload for %s: %w", tbl.Name, err)
	}

	cols := make([]string, 0, len(tbl.Columns))
	args := make([]any, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		val, ok := raw[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		args = append(args, convertJSONValue(val))
	}
	if len(cols) == 0 {
		return nil
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)%s",
		tbl.Name,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		buildUpsertClause(tbl, cols),
	)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", tbl.Name, err)
	}
	return nil
}

// syncSequences bumps postgres id sequences past the restored rows so
// new inserts do not collide. Sqlite keeps its rowid counter in the
// table itself and needs no fixup.
func (s *Service) syncSequences(ctx context.Context, restored map[string]bool) error {
	if s.driver != "pgx" {
		return nil
	}
	for name := range restored {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))",
			name, name)
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("sync sequence for %s: %w", name, err)
		}
	}
	return nil
}

func selectTables(requested []string) ([]tableSpec, error) {
	if len(requested) == 0 {
		out := append([]tableSpec(nil), tables...)
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, nil
	}
	index := make(map[string]tableSpec, len(tables))
	for _, tbl := range tables {
		index[tbl.Name] = tbl
	}
	set := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		n := strings.TrimSpace(strings.ToLower(name))
		if n == "" {
			continue
		}
		if _, ok := index[n]; !ok {
			return nil, fmt.Errorf("backup: unsupported table %q", name)
		}
		set[n] = struct{}{}
	}
	if len(set) == 0 {
		return nil, errNoTablesSelected
	}
	out := make([]tableSpec, 0, len(set))
	for _, tbl := range tables {
		if _, ok := set[tbl.Name]; ok {
			out = append(out, tbl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func buildUpsertClause(tbl tableSpec, insertCols []string) string {
	updateCols := difference(insertCols, tbl.Conflict)
	conflict := strings.Join(tbl.Conflict, ", ")
	if len(updateCols) == 0 {
		return fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", conflict)
	}
	assignments := make([]string, len(updateCols))
	for i, col := range updateCols {
		assignments[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", conflict, strings.Join(assignments, ", "))
}

// convertDBValue normalizes driver-specific scan results for JSON
// encoding. database/sql often hands back []byte for text columns.
func convertDBValue(value any) any {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return value
	}
}

// convertJSONValue turns decoded JSON values back into driver-friendly
// arguments. Numbers arrive as json.Number so integer ids survive the
// round trip without float truncation.
func convertJSONValue(value any) any {
	if num, ok := value.(json.Number); ok {
		if i, err := num.Int64(); err == nil {
			return i
		}
		if f, err := num.Float64(); err == nil {
			return f
		}
		return num.String()
	}
	return value
}

func difference(slice []string, exclude []string) []string {
	set := make(map[string]struct{}, len(exclude))
	for _, item := range exclude {
		set[item] = struct{}{}
	}
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		if _, ok := set[item]; !ok {
			result = append(result, item)
		}
	}
	return result
}

func tableNames(specs []tableSpec) []string {
	names := make([]string, len(specs))
	for i, tbl := range specs {
		names[i] = tbl.Name
	}
	return names
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte{'\n'})
	return err
}
