package web

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewRouter wires the browse, quiz and audio routes.
func NewRouter(h *Handler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.browse)
	mux.HandleFunc("GET /quiz", h.quizPage)
	mux.HandleFunc("POST /quiz/answer", h.answer)
	mux.HandleFunc("POST /quiz/restart", h.restart)
	mux.HandleFunc("GET /quiz/audio", h.questionAudio)
	mux.HandleFunc("GET /audio/{kind}/{index}", h.entryAudio)
	mux.HandleFunc("GET /healthz", h.healthz)

	return withRequestLogging(logger, withRecover(logger, mux))
}

func withRecover(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in http handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func withRequestLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
