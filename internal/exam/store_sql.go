package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) error {
	ids, err := json.Marshal(a.QuestionIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempts (id,section_id,user_id,status,question_ids_json,started_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.SectionID, a.UserID, a.Status, string(ids), a.StartedAt.UnixNano())
	return err
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,section_id,user_id,status,question_ids_json,answers_json,score,result_json,started_at,submitted_at
		FROM attempts WHERE id=$1`, id)
	var (
		a                       Attempt
		idsJSON, ansJSON, rJSON string
		started                 int64
		submitted               sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.SectionID, &a.UserID, &a.Status, &idsJSON, &ansJSON, &a.Score, &rJSON, &started, &submitted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrNotFound
		}
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &a.QuestionIDs); err != nil {
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(ansJSON), &a.Answers); err != nil || a.Answers == nil {
		a.Answers = map[string]string{}
	}
	if rJSON != "" {
		var r Result
		if err := json.Unmarshal([]byte(rJSON), &r); err != nil {
			return Attempt{}, err
		}
		a.Result = &r
	}
	a.StartedAt = time.Unix(0, started).UTC()
	if submitted.Valid {
		a.SubmittedAt = time.Unix(0, submitted.Int64).UTC()
	}
	return a, nil
}

func (s *SQLStore) SaveResult(ctx context.Context, a Attempt) error {
	ans, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	var res []byte
	if a.Result != nil {
		if res, err = json.Marshal(a.Result); err != nil {
			return err
		}
	}
	r, err := s.db.ExecContext(ctx, `UPDATE attempts SET status=$1, answers_json=$2, score=$3, result_json=$4, submitted_at=$5
		WHERE id=$6 AND status=$7`,
		a.Status, string(ans), a.Score, string(res), a.SubmittedAt.UnixNano(), a.ID, StatusInProgress)
	if err != nil {
		return err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.GetAttempt(ctx, a.ID); err != nil {
			return err
		}
		return ErrAlreadySubmitted
	}
	return nil
}
