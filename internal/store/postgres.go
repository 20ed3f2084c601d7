// Package store persists the problem bank in PostgreSQL so other
// platform services can consume it without linking the dataset. The
// in-memory bank stays authoritative; Sync pushes a validated document
// into the tables.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdeck/problembank/internal/bank"
)

const dbTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS problems (
	question_id       text PRIMARY KEY,
	frontend_id       text NOT NULL UNIQUE,
	title             text NOT NULL,
	title_slug        text NOT NULL UNIQUE,
	difficulty        text NOT NULL CHECK (difficulty IN ('Easy', 'Medium', 'Hard')),
	topics            text[] NOT NULL,
	problem_statement text NOT NULL,
	constraints       text[] NOT NULL,
	input_format      text NOT NULL,
	output_format     text NOT NULL,
	tier_position     int NOT NULL,
	updated_at        timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS problem_examples (
	question_id    text NOT NULL REFERENCES problems(question_id) ON DELETE CASCADE,
	example_number int NOT NULL,
	input          text NOT NULL,
	output         text NOT NULL,
	explanation    text NOT NULL,
	PRIMARY KEY (question_id, example_number)
);
`

// Store is a PostgreSQL-backed problem repository.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a store on top of an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init creates the tables when they do not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Sync replaces the stored dataset with the given document inside one
// transaction, so readers never observe a half-written collection.
func (s *Store) Sync(ctx context.Context, doc bank.Document) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM problems`); err != nil {
		return fmt.Errorf("clearing problems: %w", err)
	}

	for _, tier := range bank.Difficulties() {
		for pos, p := range doc.Tier(tier) {
			if err := insertProblem(ctx, tx, p, pos); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sync: %w", err)
	}
	return nil
}

func insertProblem(ctx context.Context, tx pgx.Tx, p bank.Problem, pos int) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO problems (question_id, frontend_id, title, title_slug, difficulty,
		                       topics, problem_statement, constraints, input_format,
		                       output_format, tier_position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.QuestionID, p.FrontendID, p.Title, p.TitleSlug, string(p.Difficulty),
		p.Topics, p.Statement, p.Constraints, p.InputFormat,
		p.OutputFormat, pos,
	)
	if err != nil {
		return fmt.Errorf("inserting problem %s: %w", p.TitleSlug, err)
	}

	for _, ex := range p.Examples {
		_, err := tx.Exec(ctx,
			`INSERT INTO problem_examples (question_id, example_number, input, output, explanation)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.QuestionID, ex.Number, ex.Input, ex.Output, ex.Explanation,
		)
		if err != nil {
			return fmt.Errorf("inserting example %d of %s: %w", ex.Number, p.TitleSlug, err)
		}
	}
	return nil
}

// Count returns the number of stored problems.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM problems`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting problems: %w", err)
	}
	return n, nil
}

// GetBySlug loads one problem with its examples.
func (s *Store) GetBySlug(ctx context.Context, titleSlug string) (bank.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var p bank.Problem
	err := s.pool.QueryRow(ctx,
		`SELECT question_id, frontend_id, title, title_slug, difficulty, topics,
		        problem_statement, constraints, input_format, output_format
		 FROM problems WHERE title_slug = $1`,
		titleSlug,
	).Scan(&p.QuestionID, &p.FrontendID, &p.Title, &p.TitleSlug, &p.Difficulty,
		&p.Topics, &p.Statement, &p.Constraints, &p.InputFormat, &p.OutputFormat)
	if errors.Is(err, pgx.ErrNoRows) {
		return bank.Problem{}, fmt.Errorf("slug %q: %w", titleSlug, bank.ErrNotFound)
	}
	if err != nil {
		return bank.Problem{}, fmt.Errorf("loading problem %s: %w", titleSlug, err)
	}

	p.Examples, err = s.examples(ctx, p.QuestionID)
	if err != nil {
		return bank.Problem{}, err
	}
	return p, nil
}

// ListByDifficulty returns a tier in dataset order, examples included.
func (s *Store) ListByDifficulty(ctx context.Context, d bank.Difficulty) ([]bank.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT question_id, frontend_id, title, title_slug, difficulty, topics,
		        problem_statement, constraints, input_format, output_format
		 FROM problems WHERE difficulty = $1 ORDER BY tier_position`,
		string(d),
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s problems: %w", d, err)
	}
	defer rows.Close()

	var out []bank.Problem
	for rows.Next() {
		var p bank.Problem
		if err := rows.Scan(&p.QuestionID, &p.FrontendID, &p.Title, &p.TitleSlug,
			&p.Difficulty, &p.Topics, &p.Statement, &p.Constraints,
			&p.InputFormat, &p.OutputFormat); err != nil {
			return nil, fmt.Errorf("scanning problem: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s problems: %w", d, err)
	}

	for i := range out {
		out[i].Examples, err = s.examples(ctx, out[i].QuestionID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) examples(ctx context.Context, questionID string) ([]bank.Example, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT example_number, input, output, explanation
		 FROM problem_examples WHERE question_id = $1 ORDER BY example_number`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading examples of %s: %w", questionID, err)
	}
	defer rows.Close()

	var out []bank.Example
	for rows.Next() {
		var ex bank.Example
		if err := rows.Scan(&ex.Number, &ex.Input, &ex.Output, &ex.Explanation); err != nil {
			return nil, fmt.Errorf("scanning example: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}
