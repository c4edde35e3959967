package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/agentrt/hostcore/convo"
	"github.com/agentrt/hostcore/errs"
	_ "modernc.org/sqlite"
)

// SQLiteProvider persists conversation history durably via modernc.org/sqlite
// (pure Go, no cgo, matching the pack's preferred driver for embedded
// storage). Each (agentName, sessionKey) row holds its full message list
// as a JSON blob; Append serializes per key through keyLocks and commits
// in a single transaction, satisfying the at-most-one-writer invariant.
type SQLiteProvider struct {
	db    *sql.DB
	locks *keyLocks
}

// OpenSQLite opens (and migrates) a SQLite-backed Provider at path. Use
// ":memory:" for tests that want SQL semantics without a file.
func OpenSQLite(path string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.New(errs.TransportUnavailable, "storage.OpenSQLite", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS history (
		agent_name TEXT NOT NULL,
		session_key TEXT NOT NULL,
		messages_json TEXT NOT NULL,
		PRIMARY KEY (agent_name, session_key)
	)`); err != nil {
		_ = db.Close()
		return nil, errs.New(errs.TransportUnavailable, "storage.OpenSQLite", err)
	}
	return &SQLiteProvider{db: db, locks: newKeyLocks()}, nil
}

func (s *SQLiteProvider) Close() error { return s.db.Close() }

func (s *SQLiteProvider) Load(ctx context.Context, agentName, sessionKey string) (convo.History, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT messages_json FROM history WHERE agent_name = ? AND session_key = ?`, agentName, sessionKey)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return convo.History{AgentName: agentName, SessionKey: sessionKey}, nil
		}
		return convo.History{}, errs.New(errs.ToolExecutionError, "SQLiteProvider.Load", err)
	}
	var messages []convo.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return convo.History{}, errs.New(errs.ToolExecutionError, "SQLiteProvider.Load", err)
	}
	return convo.History{AgentName: agentName, SessionKey: sessionKey, Messages: messages}, nil
}

func (s *SQLiteProvider) Append(ctx context.Context, agentName, sessionKey string, messages ...convo.Message) (convo.History, error) {
	lock := s.locks.lockFor(key(agentName, sessionKey))
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return convo.History{}, errs.New(errs.ToolExecutionError, "SQLiteProvider.Append", err)
	}
	defer tx.Rollback()

	h, err := s.loadTx(ctx, tx, agentName, sessionKey)
	if err != nil {
		return convo.History{}, err
	}
	h.Messages = append(h.Messages, messages...)

	raw, err := json.Marshal(h.Messages)
	if err != nil {
		return convo.History{}, errs.New(errs.ToolExecutionError, "SQLiteProvider.Append", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (agent_name, session_key, messages_json) VALUES (?, ?, ?)
		 ON CONFLICT(agent_name, session_key) DO UPDATE SET messages_json = excluded.messages_json`,
		agentName, sessionKey, string(raw)); err != nil {
		return convo.History{}, errs.New(errs.ToolExecutionError, "SQLiteProvider.Append", err)
	}
	if err := tx.Commit(); err != nil {
		return convo.History{}, errs.New(errs.ToolExecutionError, "SQLiteProvider.Append", err)
	}
	return h, nil
}

func (s *SQLiteProvider) loadTx(ctx context.Context, tx *sql.Tx, agentName, sessionKey string) (convo.History, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT messages_json FROM history WHERE agent_name = ? AND session_key = ?`, agentName, sessionKey)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return convo.History{AgentName: agentName, SessionKey: sessionKey}, nil
		}
		return convo.History{}, errs.New(errs.ToolExecutionError, "SQLiteProvider.loadTx", err)
	}
	var messages []convo.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return convo.History{}, errs.New(errs.ToolExecutionError, "SQLiteProvider.loadTx", err)
	}
	return convo.History{AgentName: agentName, SessionKey: sessionKey, Messages: messages}, nil
}

func (s *SQLiteProvider) Delete(ctx context.Context, agentName, sessionKey string) error {
	lock := s.locks.lockFor(key(agentName, sessionKey))
	lock.Lock()
	defer lock.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE agent_name = ? AND session_key = ?`, agentName, sessionKey)
	if err != nil {
		return errs.New(errs.ToolExecutionError, "SQLiteProvider.Delete", err)
	}
	return nil
}
