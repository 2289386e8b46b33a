package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/infra/postgres"
)

// ResultRepository archives completed quiz sessions.
type ResultRepository struct {
	transactor *postgres.Transactor
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(transactor *postgres.Transactor) *ResultRepository {
	return &ResultRepository{transactor: transactor}
}

// Save stores the result and its answers in a single transaction.
// Saving the same attempt twice is a no-op; every restart is a new attempt.
func (r *ResultRepository) Save(ctx context.Context, result *entities.QuizResult) error {
	id, err := uuid.Parse(result.AttemptID)
	if err != nil {
		return fmt.Errorf("parse attempt id: %w", err)
	}
	sessionID, err := uuid.Parse(result.SessionID)
	if err != nil {
		return fmt.Errorf("parse session id: %w", err)
	}

	return r.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO quiz_results (
				id, session_id, score, total_questions, correct_answers, started_at, completed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`,
			id,
			sessionID,
			result.Score,
			result.TotalQuestions,
			result.CorrectAnswers,
			result.StartedAt,
			result.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("insert quiz result: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		return insertAnswers(ctx, tx, id, result.Answers)
	})
}

func insertAnswers(ctx context.Context, db postgres.DBTX, resultID uuid.UUID, answers []entities.QuizAnswer) error {
	query := `
		INSERT INTO quiz_result_answers (
			result_id, position, prompt, selected, correct_answer, is_correct, answered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, a := range answers {
		_, err := db.Exec(ctx, query,
			resultID,
			a.Position,
			a.Prompt,
			a.Selected,
			a.CorrectAnswer,
			a.IsCorrect,
			a.AnsweredAt,
		)
		if err != nil {
			return fmt.Errorf("insert answer %d: %w", a.Position, err)
		}
	}

	return nil
}
