package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Activity is one console action recorded in activity_log.
type Activity struct {
	ActorID   string
	ActorName string
	Action    string
	Entity    string
	EntityID  string
	Meta      map[string]any
	At        time.Time
}

// ActivityRecorder is the write side of the activity log used by handlers.
type ActivityRecorder interface {
	Record(ctx context.Context, entry Activity) error
}

// ActivityLog writes and reads activity_log rows.
type ActivityLog struct {
	pool *pgxpool.Pool
}

// NewActivityLog returns a new ActivityLog.
func NewActivityLog(pool *pgxpool.Pool) *ActivityLog {
	return &ActivityLog{pool: pool}
}

// Record persists the log entry.
func (l *ActivityLog) Record(ctx context.Context, entry Activity) error {
	if l == nil || l.pool == nil {
		return errors.New("activity log not initialised")
	}
	if entry.Action == "" || entry.Entity == "" || entry.EntityID == "" {
		return errors.New("activity requires action/entity/entity_id")
	}
	meta, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}
	var at *time.Time
	if !entry.At.IsZero() {
		at = &entry.At
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO activity_log (actor_id, actor_name, action, entity, entity_id, meta, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))`,
		entry.ActorID, entry.ActorName, entry.Action, entry.Entity, entry.EntityID, meta, at)
	return err
}

// Recent returns the latest entries, newest first.
func (l *ActivityLog) Recent(ctx context.Context, limit int) ([]Activity, error) {
	if l == nil || l.pool == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.pool.Query(ctx,
		`SELECT actor_id, actor_name, action, entity, entity_id, meta, occurred_at
		 FROM activity_log ORDER BY occurred_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var (
			entry Activity
			meta  []byte
		)
		if err := rows.Scan(&entry.ActorID, &entry.ActorName, &entry.Action, &entry.Entity, &entry.EntityID, &meta, &entry.At); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &entry.Meta); err != nil {
				return nil, err
			}
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Prune removes entries older than the retention window.
func (l *ActivityLog) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if l == nil || l.pool == nil {
		return 0, nil
	}
	tag, err := l.pool.Exec(ctx, `DELETE FROM activity_log WHERE occurred_at < $1`, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RecordFor fills the actor from the request principal before recording.
// Failures are returned to the caller, which usually only logs them.
func RecordFor(ctx context.Context, recorder ActivityRecorder, action, entity, entityID string, meta map[string]any) error {
	if recorder == nil {
		return nil
	}
	entry := Activity{Action: action, Entity: entity, EntityID: entityID, Meta: meta}
	if p := PrincipalFromContext(ctx); p != nil {
		entry.ActorID = p.ID
		entry.ActorName = p.Name
	}
	return recorder.Record(ctx, entry)
}
