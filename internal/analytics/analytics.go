package analytics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/lookup"
	"github.com/studiowebux/countrysearch/internal/migrations"
)

const timestampLayout = "2006-01-02 15:04:05"

// Entry is one recorded lookup
type Entry struct {
	ID           int64
	SessionID    string
	Surface      string
	Query        string
	State        string
	Matches      int
	DurationMs   int64
	ErrorMessage string
	Timestamp    time.Time
}

// Stats aggregates the lookups made for one query
type Stats struct {
	Query         string
	TotalCalls    int
	FailedCount   int
	AvgDurationMs float64
	MinDurationMs int64
	MaxDurationMs int64
	States        map[string]int
	LastCalled    time.Time
}

type Manager struct {
	db    *sql.DB
	cache *statsCache
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create analytics directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to analytics database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, cache: newStatsCache(30 * time.Second)}, nil
}

func (m *Manager) Save(entry Entry) error {
	query := `
		INSERT INTO lookups (session_id, surface, query, state, matches, duration_ms, error_message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorMsg sql.NullString
	if entry.ErrorMessage != "" {
		errorMsg = sql.NullString{String: entry.ErrorMessage, Valid: true}
	}

	_, err := m.db.Exec(query,
		entry.SessionID,
		entry.Surface,
		entry.Query,
		entry.State,
		entry.Matches,
		entry.DurationMs,
		errorMsg,
		entry.Timestamp.Local().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save lookup entry: %w", err)
	}

	m.cache.invalidate()
	return nil
}

// LoadRecent returns the latest lookups, newest first
func (m *Manager) LoadRecent(limit int) ([]Entry, error) {
	query := `
		SELECT id, session_id, surface, query, state, matches, duration_ms, error_message, timestamp
		FROM lookups
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load lookups: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var timestamp string
		var errorMsg sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.Surface,
			&e.Query,
			&e.State,
			&e.Matches,
			&e.DurationMs,
			&errorMsg,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lookup entry: %w", err)
		}

		if errorMsg.Valid {
			e.ErrorMessage = errorMsg.String
		}
		e.Timestamp = parseTimestamp(timestamp)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetStatsPerQuery aggregates lookups by query, most recently used first
func (m *Manager) GetStatsPerQuery() ([]Stats, error) {
	if cached, ok := m.cache.get(); ok {
		return cached, nil
	}

	query := `
		WITH states_agg AS (
			SELECT
				query,
				json_group_object(state, count) as states_json
			FROM (
				SELECT query, state, COUNT(*) as count
				FROM lookups
				GROUP BY query, state
			)
			GROUP BY query
		)
		SELECT
			l.query,
			COUNT(*) as total_calls,
			SUM(CASE WHEN l.state = 'failed' THEN 1 ELSE 0 END) as failed_count,
			AVG(l.duration_ms) as avg_duration,
			MIN(l.duration_ms) as min_duration,
			MAX(l.duration_ms) as max_duration,
			MAX(l.timestamp) as last_called,
			COALESCE(s.states_json, '{}') as states_json
		FROM lookups l
		LEFT JOIN states_agg s ON l.query = s.query
		GROUP BY l.query
		ORDER BY last_called DESC
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats per query: %w", err)
	}
	defer rows.Close()

	var statsList []Stats
	for rows.Next() {
		var s Stats
		var lastCalled sql.NullString
		var statesJSON string

		err := rows.Scan(
			&s.Query,
			&s.TotalCalls,
			&s.FailedCount,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&lastCalled,
			&statesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}

		if lastCalled.Valid {
			s.LastCalled = parseTimestamp(lastCalled.String)
		}

		s.States = make(map[string]int)
		if err := json.Unmarshal([]byte(statesJSON), &s.States); err != nil {
			return nil, fmt.Errorf("failed to unmarshal states: %w", err)
		}

		statsList = append(statsList, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	m.cache.set(statsList)
	return statsList, nil
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM lookups")
	if err != nil {
		return fmt.Errorf("failed to clear analytics: %w", err)
	}
	m.cache.invalidate()
	return nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// parseTimestamp reads a timestamp stored in local time without zone info
func parseTimestamp(value string) time.Time {
	ts, err := time.ParseInLocation(timestampLayout, value, time.Local)
	if err == nil {
		return ts
	}
	ts, err = time.Parse(time.RFC3339, value)
	if err == nil {
		return ts
	}
	return time.Time{}
}

// Recorder saves every observed lookup. Write failures are logged and
// never reach the surface.
type Recorder struct {
	manager   *Manager
	surface   string
	sessionID string
	logger    *zap.Logger
}

// NewRecorder creates a recorder tagging entries with surface and session
func NewRecorder(m *Manager, surface, sessionID string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{manager: m, surface: surface, sessionID: sessionID, logger: logger}
}

// ObserveLookup implements lookup.Observer
func (r *Recorder) ObserveLookup(ev lookup.Event) {
	entry := Entry{
		SessionID:  r.sessionID,
		Surface:    r.surface,
		Query:      ev.Query,
		State:      ev.State.String(),
		Matches:    ev.Matches,
		DurationMs: ev.Duration.Milliseconds(),
		Timestamp:  ev.At,
	}
	if ev.Err != nil {
		entry.ErrorMessage = ev.Err.Error()
	}

	if err := r.manager.Save(entry); err != nil {
		r.logger.Warn("failed to record lookup", zap.String("query", ev.Query), zap.Error(err))
	}
}
