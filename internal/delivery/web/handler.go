package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/repository"
	"github.com/aliskhannn/kakaenen/internal/service"
	"github.com/aliskhannn/kakaenen/internal/storage"
)

type Handler struct {
	quiz   QuizService
	lesson LessonService
	audio  AudioService
	views  *renderer
	logger *zap.Logger
}

func NewHandler(quiz QuizService, lesson LessonService, audio AudioService, logger *zap.Logger) (*Handler, error) {
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &Handler{
		quiz:   quiz,
		lesson: lesson,
		audio:  audio,
		views:  views,
		logger: logger,
	}, nil
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// browse renders every vocabulary entry and sentence. ?play=<kind>&i=<index>
// resolves audio for one entry and shows either a player or the unavailable indicator.
func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	v := newBrowseView(h.lesson.Unit(), h.lesson.Vocabulary(), h.lesson.Sentences())

	if kind := r.URL.Query().Get("play"); kind != "" {
		index, err := strconv.Atoi(r.URL.Query().Get("i"))
		if err != nil {
			http.Error(w, "invalid entry index", http.StatusBadRequest)
			return
		}

		req, err := h.lesson.AudioRequest(kind, index)
		if err != nil {
			h.writeLookupError(w, err)
			return
		}

		pb := playbackFor(fmt.Sprintf("/audio/%s/%d", kind, index), h.audio.Play(r.Context(), req))
		switch kind {
		case service.KindVocab:
			v.Vocab[index].Audio = pb
		case service.KindSentence:
			v.Sentences[index].Audio = pb
		}
	}

	if err := h.views.renderBrowse(w, v); err != nil {
		h.logger.Error("failed to render browse view", zap.Error(err))
	}
}

func (h *Handler) quizPage(w http.ResponseWriter, r *http.Request) {
	qs, err := h.session(r.Context(), w, r)
	if err != nil {
		h.internalError(w, "failed to load quiz session", err)
		return
	}

	v := newQuizView(h.lesson.Unit(), qs)

	if r.URL.Query().Get("play") != "" && v.HasAudio {
		cur, _ := qs.Current()
		req, _ := service.QuestionAudioRequest(cur.Question)
		v.Audio = playbackFor("/quiz/audio", h.audio.Play(r.Context(), req))
	}

	if err := h.views.renderQuiz(w, v); err != nil {
		h.logger.Error("failed to render quiz view", zap.String("session_id", qs.ID), zap.Error(err))
	}
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	position, errPos := strconv.Atoi(r.FormValue("position"))
	choice, errChoice := strconv.Atoi(r.FormValue("choice"))
	if errPos != nil || errChoice != nil {
		http.Error(w, "position and choice are required", http.StatusBadRequest)
		return
	}

	// No live session: start one and show its first question ungraded.
	qs, err := h.lookupSession(r.Context(), r)
	if errors.Is(err, storage.ErrSessionNotFound) {
		if _, err := h.session(r.Context(), w, r); err != nil {
			h.internalError(w, "failed to start quiz session", err)
			return
		}
		http.Redirect(w, r, "/quiz", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.internalError(w, "failed to load quiz session", err)
		return
	}

	_, _, err = h.quiz.SubmitChoice(r.Context(), qs.ID, position, choice)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrStaleQuestion), errors.Is(err, entities.ErrSessionCompleted):
		// Replayed form: show the current state instead.
		h.logger.Debug("ignored stale answer", zap.String("session_id", qs.ID), zap.Error(err))
	case errors.Is(err, service.ErrInvalidChoice):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		h.internalError(w, "failed to submit answer", err)
		return
	}

	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

func (h *Handler) restart(w http.ResponseWriter, r *http.Request) {
	qs, err := h.session(r.Context(), w, r)
	if err != nil {
		h.internalError(w, "failed to load quiz session", err)
		return
	}

	if _, err := h.quiz.Restart(r.Context(), qs.ID); err != nil {
		h.internalError(w, "failed to restart quiz", err)
		return
	}

	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

func (h *Handler) entryAudio(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid entry index", http.StatusBadRequest)
		return
	}

	req, err := h.lesson.AudioRequest(r.PathValue("kind"), index)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	h.writePlayback(w, h.audio.Play(r.Context(), req), "public, max-age=86400")
}

func (h *Handler) questionAudio(w http.ResponseWriter, r *http.Request) {
	qs, err := h.session(r.Context(), w, r)
	if err != nil {
		h.internalError(w, "failed to load quiz session", err)
		return
	}

	cur, ok := qs.Current()
	if !ok {
		http.NotFound(w, r)
		return
	}
	req, ok := service.QuestionAudioRequest(cur.Question)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// The URL stays the same across questions.
	h.writePlayback(w, h.audio.Play(r.Context(), req), "no-store")
}

func (h *Handler) writePlayback(w http.ResponseWriter, res service.PlaybackResult, cacheControl string) {
	if !res.Available() {
		status := http.StatusServiceUnavailable
		if res.Reason == service.ReasonNotFound {
			status = http.StatusNotFound
		}
		w.Header().Set("X-Audio-Degraded", string(res.Reason))
		http.Error(w, degradedMessage(res.Reason), status)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Cache-Control", cacheControl)
	_, _ = w.Write(res.Data)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownKind), errors.Is(err, repository.ErrEntryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.internalError(w, "failed to look up entry", err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
