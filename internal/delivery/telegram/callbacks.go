package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/service"
	"github.com/aliskhannn/kakaenen/internal/storage"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb, "")
		return
	}

	cd := decodeCallback(cb.Data)

	switch {
	case cd.Action == actionQuiz && len(cd.Params) > 0 && cd.Params[0] == quizAnswer:
		h.handleQuizAnswer(ctx, cb, cd)
	case cd.Action == actionQuiz && len(cd.Params) > 0 && cd.Params[0] == quizRestart:
		h.handleQuizRestart(ctx, cb)
	case cd.Action == actionQuiz && len(cd.Params) > 0 && cd.Params[0] == quizAudio:
		h.handleQuizAudio(ctx, cb)
	case cd.Action == actionPlay:
		h.handlePlay(ctx, cb, cd)
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb, "")
	}
}

func (h *Handler) handleQuizAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) {
	chatID := cb.Message.Chat.ID

	position, errPos := cd.intParam(1)
	choice, errChoice := cd.intParam(2)
	if errPos != nil || errChoice != nil {
		h.logger.Warn("invalid quiz answer callback", zap.String("data", cd.Raw))
		h.answerCallback(cb, "")
		return
	}

	sessionID, ok := h.sessions.get(chatID)
	if !ok {
		h.answerCallback(cb, msgQuizExpired)
		return
	}

	qs, answer, err := h.quiz.SubmitChoice(ctx, sessionID, position, choice)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrSessionNotFound):
		h.sessions.delete(chatID)
		h.answerCallback(cb, msgQuizExpired)
		return
	case errors.Is(err, service.ErrStaleQuestion), errors.Is(err, entities.ErrSessionCompleted):
		h.answerCallback(cb, msgAlreadyAnswered)
		return
	case errors.Is(err, service.ErrInvalidChoice):
		h.logger.Warn("invalid quiz choice", zap.String("data", cd.Raw), zap.Error(err))
		h.answerCallback(cb, "")
		return
	default:
		h.logger.Error("failed to submit answer",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		h.answerCallback(cb, msgInternalError)
		return
	}

	toast := msgCorrect
	if !answer.IsCorrect {
		toast = fmt.Sprintf(msgWrongFmt, answer.Hint)
	}
	h.answerCallback(cb, toast)

	_ = h.send(newEdit(chatID, cb.Message.MessageID, answeredText(answer)))
	_ = h.sendQuestion(chatID, qs)
}

func (h *Handler) handleQuizRestart(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	h.answerCallback(cb, "")

	_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
		qs, err := h.chatSession(ctx, chatID)
		if err != nil {
			return err
		}
		if qs, err = h.quiz.Restart(ctx, qs.ID); err != nil {
			return fmt.Errorf("restart quiz: %w", err)
		}
		return h.sendQuestion(chatID, qs)
	})(ctx, chatID)
}

func (h *Handler) handleQuizAudio(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	sessionID, ok := h.sessions.get(chatID)
	if !ok {
		h.answerCallback(cb, msgQuizExpired)
		return
	}

	qs, err := h.quiz.Session(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			h.sessions.delete(chatID)
		}
		h.answerCallback(cb, msgQuizExpired)
		return
	}

	cur, ok := qs.Current()
	if !ok {
		h.answerCallback(cb, msgAlreadyAnswered)
		return
	}

	req, ok := service.QuestionAudioRequest(cur.Question)
	if !ok {
		h.answerCallback(cb, msgAudioNotFound)
		return
	}

	h.sendPlayback(ctx, cb, req, fmt.Sprintf("question-%d", qs.CurrentIndex+1))
}

func (h *Handler) handlePlay(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) {
	index, err := cd.intParam(1)
	if err != nil {
		h.logger.Warn("invalid play callback", zap.String("data", cd.Raw))
		h.answerCallback(cb, "")
		return
	}

	kind := cd.Params[0]
	req, err := h.lesson.AudioRequest(kind, index)
	if err != nil {
		h.logger.Warn("play callback for unknown entry", zap.String("data", cd.Raw), zap.Error(err))
		h.answerCallback(cb, msgAudioNotFound)
		return
	}

	h.sendPlayback(ctx, cb, req, fmt.Sprintf("%s-%d", kind, index+1))
}

// sendPlayback uploads the resolved audio, or shows the degraded indicator as a toast.
func (h *Handler) sendPlayback(ctx context.Context, cb *tgbotapi.CallbackQuery, req service.AudioRequest, name string) {
	res := h.audio.Play(ctx, req)
	if !res.Available() {
		h.answerCallback(cb, degradedText(res.Reason))
		return
	}
	h.answerCallback(cb, "")

	ext := ".mp3"
	if res.ContentType == "audio/mp4" {
		ext = ".m4a"
	}

	a := tgbotapi.NewAudio(cb.Message.Chat.ID, tgbotapi.FileBytes{Name: name + ext, Bytes: res.Data})
	a.Caption = req.Text
	_ = h.send(a)
}
