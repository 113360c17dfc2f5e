// Package detlog records every detection into a local SQLite database so
// accuracy can be audited after the fact. It is write-mostly and strictly
// best-effort: a failed insert never affects the detection result.
package detlog

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quadroai/voicepilot/pkg/models"
)

//go:embed migration.sql
var migrationSQL string

// Log wraps the SQLite connection.
type Log struct {
	conn *sql.DB
	path string
}

// Detection is one audited row.
type Detection struct {
	ID         int64
	SessionID  string
	Input      string
	Intent     string
	Confidence float64
	Entities   map[string]string
	DurationMs int64
	Status     string
	CreatedAt  time.Time
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	l := &Log{conn: conn, path: path}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return l, nil
}

func (l *Log) migrate() error {
	if _, err := l.conn.Exec(migrationSQL); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (l *Log) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}

// Record inserts one detection and returns its row id.
func (l *Log) Record(sessionID string, result *models.IntentResult) (int64, error) {
	entities, err := json.Marshal(result.Entities)
	if err != nil {
		entities = []byte("{}")
	}

	res, err := l.conn.Exec(`
		INSERT INTO detections (session_id, input, intent, confidence, entities, duration_ms, status)
		VALUES (?, ?, ?, ?, ?, ?, 'detected')
	`, sessionID, result.OriginalText, result.Intent.Name, result.Confidence,
		string(entities), result.ProcessingTime.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("record detection: %w", err)
	}
	return res.LastInsertId()
}

// Finish updates the execution outcome of a recorded detection.
func (l *Log) Finish(id int64, status, errorMsg string) error {
	_, err := l.conn.Exec(`
		UPDATE detections SET status = ?, error_message = ? WHERE id = ?
	`, status, errorMsg, id)
	if err != nil {
		return fmt.Errorf("update detection %d: %w", id, err)
	}
	return nil
}

// Recent returns the newest detections, most recent first.
func (l *Log) Recent(limit int) ([]Detection, error) {
	rows, err := l.conn.Query(`
		SELECT id, session_id, input, intent, confidence, COALESCE(entities, '{}'),
		       duration_ms, status, created_at
		FROM detections
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}
	defer rows.Close()

	var out []Detection
	for rows.Next() {
		var d Detection
		var entities string
		var createdAt int64
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Input, &d.Intent, &d.Confidence,
			&entities, &d.DurationMs, &d.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		if err := json.Unmarshal([]byte(entities), &d.Entities); err != nil {
			d.Entities = map[string]string{}
		}
		d.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, d)
	}
	return out, rows.Err()
}

// IntentCounts aggregates how often each intent type was detected.
func (l *Log) IntentCounts() (map[string]int, error) {
	rows, err := l.conn.Query(`SELECT intent, COUNT(*) FROM detections GROUP BY intent`)
	if err != nil {
		return nil, fmt.Errorf("query intent counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var intent string
		var n int
		if err := rows.Scan(&intent, &n); err != nil {
			return nil, fmt.Errorf("scan intent count: %w", err)
		}
		counts[intent] = n
	}
	return counts, rows.Err()
}
