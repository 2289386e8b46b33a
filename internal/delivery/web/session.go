package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/storage"
)

const sessionCookie = "kakaenen_session"

// lookupSession returns the session named by the cookie. A missing cookie
// reports storage.ErrSessionNotFound like an evicted session does.
func (h *Handler) lookupSession(ctx context.Context, r *http.Request) (*entities.QuizSession, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil, storage.ErrSessionNotFound
	}
	return h.quiz.Session(ctx, c.Value)
}

// session returns the caller's quiz session, starting a new one when the
// cookie is missing or points to an evicted session.
func (h *Handler) session(ctx context.Context, w http.ResponseWriter, r *http.Request) (*entities.QuizSession, error) {
	qs, err := h.lookupSession(ctx, r)
	if err == nil {
		return qs, nil
	}
	if !errors.Is(err, storage.ErrSessionNotFound) {
		return nil, err
	}

	if qs, err = h.quiz.Start(ctx); err != nil {
		return nil, err
	}
	setSessionCookie(w, qs.ID)

	return qs, nil
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
