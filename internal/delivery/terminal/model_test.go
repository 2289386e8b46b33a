package terminal

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/repository"
	"github.com/aliskhannn/kakaenen/internal/service"
	"github.com/aliskhannn/kakaenen/internal/storage"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	content, err := repository.NewContentRepository(afero.NewMemMapFs(), "", entities.ExactMatcher{})
	if err != nil {
		t.Fatalf("NewContentRepository() error = %v", err)
	}

	quiz, err := service.NewQuizService(
		content,
		storage.NewQuizStorage(),
		service.QuizConfig{QuestionsPerSession: 3, Reward: 100},
		zap.NewNop(),
		service.WithRandSource(rand.NewSource(11)),
	)
	if err != nil {
		t.Fatalf("NewQuizService() error = %v", err)
	}

	m, err := NewModel(context.Background(), quiz, content.Unit())
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func press(m *Model, msg tea.KeyMsg) {
	m.Update(msg)
}

func selectOption(m *Model, want int) {
	for m.cursor > want {
		press(m, tea.KeyMsg{Type: tea.KeyUp})
	}
	for m.cursor < want {
		press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
}

func correctIndex(sq entities.SessionQuestion) int {
	for i, opt := range sq.Options {
		if opt == sq.Question.CorrectAnswer {
			return i
		}
	}
	return -1
}

func TestModelPlaysFullQuiz(t *testing.T) {
	m := newTestModel(t)

	if !strings.Contains(m.View(), "Question 1 / 3") {
		t.Fatalf("expected first question in view")
	}

	// Correct, wrong, correct.
	for i := 0; i < 3; i++ {
		cur, _ := m.Session().Current()
		want := correctIndex(cur)
		if i == 1 {
			want = (want + 1) % len(cur.Options)
		}
		selectOption(m, want)
		press(m, tea.KeyMsg{Type: tea.KeyEnter})

		if i == 1 && !strings.Contains(m.View(), cur.Question.Hint) {
			t.Fatalf("expected hint after wrong answer")
		}
	}

	if !m.Session().IsCompleted() || m.Session().Score != 200 {
		t.Fatalf("expected completed session with score 200, got %d", m.Session().Score)
	}
	if !strings.Contains(m.View(), "本次得分：200") {
		t.Fatalf("expected score in completion view")
	}

	// Enter after completion is ignored.
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.err != nil {
		t.Fatalf("unexpected error after completion: %v", m.err)
	}

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.Session().IsCompleted() || m.Session().Score != 0 {
		t.Fatalf("restart did not reset the session")
	}
	if !strings.Contains(m.View(), "Question 1 / 3") {
		t.Fatalf("expected first question after restart")
	}
}

func TestModelCursorStaysInRange(t *testing.T) {
	m := newTestModel(t)
	cur, _ := m.Session().Current()

	press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Fatalf("cursor moved above first option")
	}

	for i := 0; i < len(cur.Options)+3; i++ {
		press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(cur.Options)-1 {
		t.Fatalf("cursor = %d, want %d", m.cursor, len(cur.Options)-1)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
