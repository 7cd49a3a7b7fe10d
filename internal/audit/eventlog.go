// Package audit appends admin-visible events to the event_log table.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mind-engage/ppl-mockexam/internal/logger"
)

// Event types.
const (
	QuestionCreated   = "QuestionCreated"
	QuestionUpdated   = "QuestionUpdated"
	QuestionDeleted   = "QuestionDeleted"
	QuestionsImported = "QuestionsImported"
	ExamSubmitted     = "ExamSubmitted"
)

const (
	defaultSiteID = "local"
	defaultLimit  = 50
	maxLimit      = 500
)

type Event struct {
	Seq       int64           `json:"seq"`
	SiteID    string          `json:"siteId"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Recorder is what domain services depend on. Record never fails from the
// caller's point of view.
type Recorder interface {
	Record(ctx context.Context, typ, key string, data any)
}

type EventRepo struct {
	db  *sql.DB
	log *logger.Logger
	now func() time.Time
}

func NewEventRepo(db *sql.DB, log *logger.Logger) *EventRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &EventRepo{db: db, log: log, now: time.Now}
}

func (r *EventRepo) Append(ctx context.Context, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		defaultSiteID, typ, key, string(buf), r.now().UnixNano())
	return err
}

// Record appends and logs failures instead of returning them.
func (r *EventRepo) Record(ctx context.Context, typ, key string, data any) {
	if err := r.Append(ctx, typ, key, data); err != nil {
		r.log.Warn("audit append failed", "type", typ, "key", key, "error", err)
	}
}

// List returns the newest events first.
func (r *EventRepo) List(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var (
			e    Event
			data string
			ts   int64
		)
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &data, &ts); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(data)
		e.CreatedAt = time.Unix(0, ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Discard is a Recorder that drops everything.
type Discard struct{}

func (Discard) Record(context.Context, string, string, any) {}
