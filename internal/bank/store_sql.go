package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver, now: time.Now}
}

const questionCols = `q.id, q.section_id, s.name, q.question_text, q.option_a, q.option_b, q.option_c, q.option_d,
	q.correct_answer, q.explanation, q.difficulty, q.source, q.created_at, q.updated_at`

const questionFrom = ` FROM questions q JOIN sections s ON s.section_id = q.section_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(r rowScanner) (Question, error) {
	var (
		q                Question
		created, updated int64
	)
	err := r.Scan(&q.ID, &q.SectionID, &q.SectionName, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
		&q.CorrectAnswer, &q.Explanation, &q.Difficulty, &q.Source, &created, &updated)
	if err != nil {
		return Question{}, err
	}
	q.CreatedAt = time.Unix(0, created).UTC()
	q.UpdatedAt = time.Unix(0, updated).UTC()
	return q, nil
}

func (s *SQLStore) EnsureSections(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for i, sec := range sections.All() {
		_, err := tx.ExecContext(ctx, `INSERT INTO sections (section_id, name, description, icon, sort_order)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (section_id) DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description,
				icon=EXCLUDED.icon, sort_order=EXCLUDED.sort_order`,
			sec.ID, sec.Name, sec.Description, sec.Icon, i)
		if err != nil {
			return fmt.Errorf("upsert section %s: %w", sec.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListSections(ctx context.Context) ([]Section, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.section_id, s.name, s.description, s.icon, COUNT(q.id)
		FROM sections s LEFT JOIN questions q ON q.section_id = s.section_id
		GROUP BY s.section_id, s.name, s.description, s.icon
		ORDER BY s.section_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Section{}
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.SectionID, &sec.Name, &sec.Description, &sec.Icon, &sec.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, int, error) {
	opts = opts.normalized()

	var (
		where string
		args  []any
	)
	if opts.SectionID != "" {
		where = ` WHERE q.section_id = $1`
		args = append(args, opts.SectionID)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+questionFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + questionCols + questionFrom + where +
		fmt.Sprintf(` ORDER BY q.created_at DESC, q.id DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, q)
	}
	return out, total, rows.Err()
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+questionCols+questionFrom+` WHERE q.id = $1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	return q, err
}

func (s *SQLStore) sectionExists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sections WHERE section_id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSectionNotFound
	}
	return err
}

func (s *SQLStore) CreateQuestion(ctx context.Context, in QuestionInput) (Question, error) {
	if err := s.sectionExists(ctx, in.SectionID); err != nil {
		return Question{}, err
	}
	id := uuid.NewString()
	now := s.now().UnixNano()
	_, err := s.db.ExecContext(ctx, `INSERT INTO questions
		(id, section_id, question_text, option_a, option_b, option_c, option_d, correct_answer, explanation,
		 difficulty, source, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		id, in.SectionID, in.QuestionText, in.OptionA, in.OptionB, in.OptionC, in.OptionD, in.CorrectAnswer,
		in.Explanation, in.Difficulty, in.Source, now, now)
	if err != nil {
		return Question{}, err
	}
	return s.GetQuestion(ctx, id)
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, id string, p QuestionPatch) (Question, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return Question{}, err
	}
	p.apply(&q)
	if p.SectionID != nil {
		if err := s.sectionExists(ctx, q.SectionID); err != nil {
			return Question{}, err
		}
	}
	_, err = s.db.ExecContext(ctx, `UPDATE questions SET section_id=$1, question_text=$2, option_a=$3, option_b=$4,
		option_c=$5, option_d=$6, correct_answer=$7, explanation=$8, difficulty=$9, updated_at=$10
		WHERE id=$11`,
		q.SectionID, q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectAnswer, q.Explanation,
		q.Difficulty, s.now().UnixNano(), id)
	if err != nil {
		return Question{}, err
	}
	return s.GetQuestion(ctx, id)
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) RandomQuestions(ctx context.Context, sectionID string, n int) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+questionCols+questionFrom+
		` WHERE q.section_id = $1 ORDER BY RANDOM() LIMIT $2`, sectionID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
