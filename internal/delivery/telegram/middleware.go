package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/storage"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs failures and panics and tells the chat something went wrong.
// An evicted session gets the expiry notice instead of the generic error.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("handler panic", zap.Int64("chat_id", chatID), zap.Any("panic", rec), zap.Stack("stack"))
				_ = h.send(newPlainMessage(chatID, msgInternalError))
			}
		}()

		if err := fn(ctx, chatID); err != nil {
			if errors.Is(err, storage.ErrSessionNotFound) {
				h.logger.Warn("quiz session expired", zap.Int64("chat_id", chatID))
				h.sessions.delete(chatID)
				_ = h.send(newPlainMessage(chatID, msgQuizExpired))
				return nil
			}

			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			_ = h.send(newPlainMessage(chatID, msgInternalError))
		}
		return nil
	}
}
