package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"
)

// Run describes one extraction pass over a source.
type Run struct {
	ID            string
	Source        SourceFingerprint
	MinConfidence float64
	StartedAt     time.Time
}

// MentionRecord is one accepted mention with its normalized form.
type MentionRecord struct {
	DocID          string
	Seq            int64
	Variant        string
	Category       string
	Pattern        string
	Confidence     float64
	Start          int64
	End            int64
	Normalized     string
	NormCategory   string
	NormConfidence float64
}

// CategoryCount is the number of mentions of one category in a run.
type CategoryCount struct {
	Category string
	Count    int64
}

// BeginRun registers a new run for source and returns it.
func (s *Store) BeginRun(source string, minConfidence float64) (Run, error) {
	fp, err := StatSource(source)
	if err != nil {
		return Run{}, fmt.Errorf("stat run source: %w", err)
	}
	run := Run{
		ID:            uuid.NewString(),
		Source:        fp,
		MinConfidence: minConfidence,
		StartedAt:     time.Now().UTC(),
	}
	if _, err := s.db.Exec(`INSERT INTO runs
		(run_id, source, source_size, source_mod_time, min_confidence, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, fp.Path, fp.Size, fp.ModTime, minConfidence, run.StartedAt,
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Runs returns all registered runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT
		run_id, source, source_size, source_mod_time, min_confidence, started_at
		FROM runs ORDER BY started_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source.Path, &r.Source.Size, &r.Source.ModTime,
			&r.MinConfidence, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// WriteMentions batch-inserts mentions for runID. DuckDB uses the
// Appender API; SQLite uses a prepared statement inside one transaction.
func (s *Store) WriteMentions(runID string, mentions []MentionRecord) error {
	if len(mentions) == 0 {
		return nil
	}
	if s.driver == DriverDuckDB {
		return s.appendMentions(runID, mentions)
	}
	return s.insertMentions(runID, mentions)
}

func (s *Store) appendMentions(runID string, mentions []MentionRecord) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "mentions")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, m := range mentions {
		if err := appender.AppendRow(
			runID, m.DocID, m.Seq, m.Variant, m.Category, m.Pattern, m.Confidence,
			m.Start, m.End, m.Normalized, m.NormCategory, m.NormConfidence,
		); err != nil {
			return fmt.Errorf("append mention: %w", err)
		}
	}

	return appender.Flush()
}

func (s *Store) insertMentions(runID string, mentions []MentionRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO mentions
		(run_id, doc_id, seq, variant, category, pattern, confidence,
		start_offset, end_offset, normalized, norm_category, norm_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range mentions {
		if _, err := stmt.Exec(
			runID, m.DocID, m.Seq, m.Variant, m.Category, m.Pattern, m.Confidence,
			m.Start, m.End, m.Normalized, m.NormCategory, m.NormConfidence,
		); err != nil {
			return fmt.Errorf("insert mention: %w", err)
		}
	}
	return tx.Commit()
}

const mentionColumns = `doc_id, seq, variant, category, pattern, confidence,
	start_offset, end_offset, normalized, norm_category, norm_confidence`

// MentionsByRun returns the mentions of runID in document and text order.
func (s *Store) MentionsByRun(runID string) ([]MentionRecord, error) {
	rows, err := s.db.Query(`SELECT `+mentionColumns+`
		FROM mentions WHERE run_id=? ORDER BY doc_id, seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query mentions by run: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

// MentionsByNormalized returns every stored mention, across runs, whose
// canonical form equals normalized.
func (s *Store) MentionsByNormalized(normalized string) ([]MentionRecord, error) {
	rows, err := s.db.Query(`SELECT `+mentionColumns+`
		FROM mentions WHERE normalized=? ORDER BY doc_id, seq`, normalized)
	if err != nil {
		return nil, fmt.Errorf("query mentions by normalized form: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

// CategoryCounts returns per-category mention counts for runID, ordered
// by category name.
func (s *Store) CategoryCounts(runID string) ([]CategoryCount, error) {
	rows, err := s.db.Query(`SELECT category, COUNT(*)
		FROM mentions WHERE run_id=? GROUP BY category ORDER BY category`, runID)
	if err != nil {
		return nil, fmt.Errorf("query category counts: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return counts, nil
}

// scanMentions scans rows into MentionRecord slices.
func scanMentions(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]MentionRecord, error) {
	var out []MentionRecord
	for rows.Next() {
		var m MentionRecord
		if err := rows.Scan(
			&m.DocID, &m.Seq, &m.Variant, &m.Category, &m.Pattern, &m.Confidence,
			&m.Start, &m.End, &m.Normalized, &m.NormCategory, &m.NormConfidence,
		); err != nil {
			return nil, fmt.Errorf("scan mention: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mentions: %w", err)
	}
	return out, nil
}
