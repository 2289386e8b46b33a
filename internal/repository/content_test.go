package repository

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
)

func TestBundledContent(t *testing.T) {
	repo, err := NewContentRepository(afero.NewMemMapFs(), "", entities.ExactMatcher{})
	if err != nil {
		t.Fatalf("NewContentRepository() error = %v", err)
	}

	if got := len(repo.Vocabulary()); got != 14 {
		t.Errorf("expected 14 vocabulary entries, got %d", got)
	}
	if got := len(repo.Sentences()); got != 7 {
		t.Errorf("expected 7 sentences, got %d", got)
	}
	if got := len(repo.Questions()); got != 8 {
		t.Errorf("expected 8 quiz questions, got %d", got)
	}
	if u := repo.Unit(); u.Number != 22 || u.Title != "O Kakaenen" {
		t.Errorf("unexpected unit %+v", u)
	}

	for i, q := range repo.Questions() {
		if err := q.Validate(entities.ExactMatcher{}); err != nil {
			t.Errorf("question %d invalid: %v", i, err)
		}
	}
}

func TestContentFromFileWithLongKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := `
unit: {number: 1, title: Test, subtitle: Sub}
vocabulary:
  - {headword: Nanom, translation: 水, icon: "💧", source: test, audio: nanom.m4a}
sentences:
  - {amis: Minanom cangra., chi: 他們喝水。}
quiz:
  - prompt: Nanom
    options: [水, 酒]
    answer: 水
    hint: water
`
	if err := afero.WriteFile(fs, "/lesson.yaml", []byte(data), 0o644); err != nil {
		t.Fatalf("write lesson: %v", err)
	}

	repo, err := NewContentRepository(fs, "/lesson.yaml", entities.ExactMatcher{})
	if err != nil {
		t.Fatalf("NewContentRepository() error = %v", err)
	}

	v, err := repo.VocabAt(0)
	if err != nil {
		t.Fatalf("VocabAt() error = %v", err)
	}
	if v.Headword != "Nanom" || v.Translation != "水" || v.AudioRef != "nanom.m4a" {
		t.Errorf("unexpected vocabulary entry %+v", v)
	}

	q, err := repo.QuestionAt(0)
	if err != nil {
		t.Fatalf("QuestionAt() error = %v", err)
	}
	if q.Prompt != "Nanom" || q.CorrectAnswer != "水" {
		t.Errorf("unexpected question %+v", q)
	}

	if _, err := repo.SentenceAt(1); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestInvalidContent(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"answer not in options", "quiz:\n  - {q: Titi, options: [肉, 飯], ans: 酒}\n"},
		{"single option", "quiz:\n  - {q: Titi, options: [肉], ans: 肉}\n"},
		{"unknown field", "vocabulary:\n  - {amis: Titi, chi: 肉, colour: red}\n"},
		{"missing translation", "vocabulary:\n  - {amis: Titi}\n"},
		{"not yaml", "quiz: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContent([]byte(tt.data), entities.ExactMatcher{})
			if !errors.Is(err, ErrInvalidContent) {
				t.Fatalf("expected ErrInvalidContent, got %v", err)
			}
		})
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	repo, err := NewContentRepository(afero.NewMemMapFs(), "", entities.ExactMatcher{})
	if err != nil {
		t.Fatalf("NewContentRepository() error = %v", err)
	}

	vocab := repo.Vocabulary()
	vocab[0].Headword = "changed"

	v, _ := repo.VocabAt(0)
	if v.Headword == "changed" {
		t.Fatalf("repository content was modified through a returned slice")
	}
}
