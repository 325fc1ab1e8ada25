package clientstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"redconnect/internal/adapters/storage"
)

// SQLiteStore implements Store on the client_storage table with sealed values.
type SQLiteStore struct {
	db     storage.SQLDB
	sealer *Sealer
	now    func() time.Time
}

// NewSQLiteStore creates a store over db.
// PRE: db has the client_storage schema; sealer is non-nil
func NewSQLiteStore(db storage.SQLDB, sealer *Sealer) *SQLiteStore {
	return &SQLiteStore{db: db, sealer: sealer, now: time.Now}
}

// GetAll returns every readable value for clientID.
// Values that fail authentication are dropped and logged, never returned.
func (s *SQLiteStore) GetAll(ctx context.Context, clientID string) (map[string]string, error) {
	ctx = storage.WithQueryLabel(ctx, "clientstore.GetAll")
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM client_storage WHERE client_id = ?", clientID)
	if err != nil {
		return nil, fmt.Errorf("query client storage: %w", err)
	}
	defer rows.Close()

	vals := make(map[string]string)
	for rows.Next() {
		var key string
		var sealed []byte
		if err := rows.Scan(&key, &sealed); err != nil {
			return nil, fmt.Errorf("scan client storage: %w", err)
		}
		v, err := s.sealer.Open(clientID, key, sealed)
		if errors.Is(err, ErrTampered) {
			slog.Warn("storage_event", "event", "value_rejected", "key", key)
			continue
		}
		if err != nil {
			return nil, err
		}
		vals[key] = v
	}
	return vals, rows.Err()
}

// SetMany upserts vals in one transaction.
// POST: Either every value is stored or none is
func (s *SQLiteStore) SetMany(ctx context.Context, clientID string, vals map[string]string) error {
	if len(vals) == 0 {
		return nil
	}
	ctx = storage.WithQueryLabel(ctx, "clientstore.SetMany")
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	for key, v := range vals {
		sealed, err := s.sealer.Seal(clientID, key, v)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO client_storage (client_id, key, value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(client_id, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
			clientID, key, sealed, updatedAt)
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Remove deletes keys for clientID.
func (s *SQLiteStore) Remove(ctx context.Context, clientID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx = storage.WithQueryLabel(ctx, "clientstore.Remove")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	args := make([]any, 0, len(keys)+1)
	args = append(args, clientID)
	for _, k := range keys {
		args = append(args, k)
	}
	query := fmt.Sprintf("DELETE FROM client_storage WHERE client_id = ? AND key IN (%s)", placeholders)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove client storage: %w", err)
	}
	return nil
}
