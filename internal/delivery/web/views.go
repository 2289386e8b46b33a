package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	msgCorrect          = "🎉 答對了！"
	msgWrongFmt         = "不對喔！提示：%s"
	msgAudioUnavailable = "🔇 (語音生成暫時無法使用)"
	msgAudioNotFound    = "🔇 (找不到音檔)"
)

// playback is the audio slot rendered next to an entry or question.
type playback struct {
	Src     string // audio URL when playable
	Message string // degraded indicator otherwise
}

func playbackFor(src string, res service.PlaybackResult) *playback {
	if res.Available() {
		return &playback{Src: src}
	}
	return &playback{Message: degradedMessage(res.Reason)}
}

func degradedMessage(reason service.DegradedReason) string {
	if reason == service.ReasonNotFound {
		return msgAudioNotFound
	}
	return msgAudioUnavailable
}

type entryView struct {
	Index       int
	Text        string
	Translation string
	Icon        string
	Source      string
	Audio       *playback
}

type browseView struct {
	Unit      entities.Unit
	Vocab     []entryView
	Sentences []entryView
}

func newBrowseView(unit entities.Unit, vocab []entities.VocabEntry, sentences []entities.SentenceEntry) browseView {
	v := browseView{
		Unit:      unit,
		Vocab:     make([]entryView, 0, len(vocab)),
		Sentences: make([]entryView, 0, len(sentences)),
	}
	for i, e := range vocab {
		v.Vocab = append(v.Vocab, entryView{Index: i, Text: e.Headword, Translation: e.Translation, Icon: e.Icon, Source: e.Source})
	}
	for i, e := range sentences {
		v.Sentences = append(v.Sentences, entryView{Index: i, Text: e.Text, Translation: e.Translation, Icon: e.Icon, Source: e.Source})
	}
	return v
}

type feedbackView struct {
	Correct bool
	Message string
}

type quizView struct {
	Unit      entities.Unit
	Completed bool
	Position  int
	Number    int
	Total     int
	Percent   int
	Prompt    string
	HasAudio  bool
	Audio     *playback
	Options   []string
	Feedback  *feedbackView
	Score     int
}

func newQuizView(unit entities.Unit, qs *entities.QuizSession) quizView {
	v := quizView{
		Unit:      unit,
		Completed: qs.IsCompleted(),
		Position:  qs.CurrentIndex,
		Number:    qs.CurrentIndex + 1,
		Total:     qs.Total(),
		Percent:   int(qs.Progress() * 100),
		Score:     qs.Score,
	}

	if last, ok := qs.LastAnswer(); ok {
		v.Feedback = &feedbackView{Correct: last.IsCorrect, Message: msgCorrect}
		if !last.IsCorrect {
			v.Feedback.Message = fmt.Sprintf(msgWrongFmt, last.Hint)
		}
	}

	if cur, ok := qs.Current(); ok {
		v.Prompt = cur.Question.Prompt
		v.HasAudio = cur.Question.AudioRef != ""
		v.Options = cur.Options
	}

	return v
}

// renderer executes the embedded page templates.
type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	pages := []string{"browse.html", "quiz.html"}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("").ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &renderer{templates: templates}, nil
}

func (r *renderer) render(w http.ResponseWriter, page string, data any) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("template not found: %s", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute template %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

func (r *renderer) renderBrowse(w http.ResponseWriter, v browseView) error {
	return r.render(w, "browse.html", v)
}

func (r *renderer) renderQuiz(w http.ResponseWriter, v quizView) error {
	return r.render(w, "quiz.html", v)
}
