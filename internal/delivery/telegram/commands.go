package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/storage"
)

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, welcomeText(h.lesson.Unit())))
	}
}

func (h *Handler) handleVocab() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		vocab := h.lesson.Vocabulary()

		msg := newMessage(chatID, vocabularyText(h.lesson.Unit(), vocab))
		msg.ReplyMarkup = buildVocabKeyboard(vocab)
		return h.send(msg)
	}
}

func (h *Handler) handleSentences() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		sentences := h.lesson.Sentences()

		msg := newMessage(chatID, sentencesText(h.lesson.Unit(), sentences))
		msg.ReplyMarkup = buildSentenceKeyboard(sentences)
		return h.send(msg)
	}
}

// handleQuiz resumes the chat's running quiz or starts a new one.
func (h *Handler) handleQuiz() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		qs, err := h.chatSession(ctx, chatID)
		if err != nil {
			return err
		}

		if qs.IsCompleted() {
			if qs, err = h.quiz.Restart(ctx, qs.ID); err != nil {
				return fmt.Errorf("restart quiz: %w", err)
			}
		}

		return h.sendQuestion(chatID, qs)
	}
}

// chatSession returns the chat's session, starting one if the chat has none or it was evicted.
func (h *Handler) chatSession(ctx context.Context, chatID int64) (*entities.QuizSession, error) {
	if id, ok := h.sessions.get(chatID); ok {
		qs, err := h.quiz.Session(ctx, id)
		if err == nil {
			return qs, nil
		}
		if !errors.Is(err, storage.ErrSessionNotFound) {
			return nil, err
		}
	}

	qs, err := h.quiz.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}
	h.sessions.set(chatID, qs.ID)

	h.logger.Info("quiz started", zap.Int64("chat_id", chatID), zap.String("session_id", qs.ID))

	return qs, nil
}

// sendQuestion sends the current question, or the result when the session is completed.
func (h *Handler) sendQuestion(chatID int64, qs *entities.QuizSession) error {
	if qs.IsCompleted() {
		msg := newMessage(chatID, resultText(qs))
		msg.ReplyMarkup = buildQuizResultKeyboard()
		return h.send(msg)
	}

	msg := newMessage(chatID, questionText(qs))
	msg.ReplyMarkup = buildQuizAnswerKeyboard(qs)
	return h.send(msg)
}
