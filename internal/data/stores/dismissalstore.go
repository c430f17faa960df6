package stores

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/colonyops/noticeboard/internal/core/notice"
	"github.com/colonyops/noticeboard/internal/data/db"
)

// DismissalStore implements notice.StateStore using SQLite. A row's presence
// is the dismissed flag; rows are never deleted by this store. actor_id is
// the empty string for globally scoped flags.
type DismissalStore struct {
	db *db.DB
}

var _ notice.StateStore = (*DismissalStore)(nil)

// NewDismissalStore creates a new SQLite-backed dismissal store.
func NewDismissalStore(db *db.DB) *DismissalStore {
	return &DismissalStore{db: db}
}

// Dismissed reports whether a dismissed flag exists for the key and actor.
func (s *DismissalStore) Dismissed(ctx context.Context, key string, actorID string) (bool, error) {
	var one int
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT 1 FROM dismissals WHERE key = ? AND actor_id = ?`,
		key, actorID,
	).Scan(&one)
	if IsNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dismissal get %q: %w", key, err)
	}

	return true, nil
}

const (
	busyRetries   = 3
	busyRetryWait = 25 * time.Millisecond
)

// SetDismissed persists the dismissed flag for the key and actor. Repeated
// sets are idempotent last-write-wins upserts. SQLITE_BUSY errors that
// outlast the busy_timeout pragma get a few retries before giving up.
func (s *DismissalStore) SetDismissed(ctx context.Context, key string, actorID string) error {
	var err error
	wait := busyRetryWait

	for attempt := 0; attempt <= busyRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		_, err = s.db.Conn().ExecContext(ctx,
			`INSERT INTO dismissals (key, actor_id, dismissed_at) VALUES (?, ?, ?)
			 ON CONFLICT (key, actor_id) DO UPDATE SET dismissed_at = excluded.dismissed_at`,
			key, actorID, time.Now().UnixNano(),
		)
		if err == nil {
			return nil
		}
		if !IsBusyError(err) {
			break
		}
	}

	return fmt.Errorf("dismissal set %q: %w", key, err)
}

// Dismissal is a persisted dismissed flag with its metadata.
type Dismissal struct {
	Key         string
	ActorID     string
	DismissedAt time.Time
}

// List returns all persisted dismissals, optionally filtered to a single
// key. Ordered by key then actor for stable output.
func (s *DismissalStore) List(ctx context.Context, key string) ([]Dismissal, error) {
	query := `SELECT key, actor_id, dismissed_at FROM dismissals`
	args := []any{}
	if key != "" {
		query += ` WHERE key = ?`
		args = append(args, key)
	}

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dismissal list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []Dismissal
	for rows.Next() {
		var (
			d  Dismissal
			at int64
		)
		if err := rows.Scan(&d.Key, &d.ActorID, &at); err != nil {
			return nil, fmt.Errorf("dismissal list scan: %w", err)
		}
		d.DismissedAt = time.Unix(0, at)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dismissal list rows: %w", err)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].ActorID < result[j].ActorID
	})

	return result, nil
}
