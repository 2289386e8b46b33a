package service_test

import (
	"errors"
	"testing"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/repository"
	"github.com/aliskhannn/kakaenen/internal/service"
)

const lessonYAML = `
unit:
  number: 1
  title: Test
vocabulary:
  - amis: Kakaenen
    chi: 食物
  - amis: Nanom
    chi: 水
    audio: nanom_v2
sentences:
  - amis: Mafana' kiso?
    chi: 你知道嗎？
quiz:
  - q: Kakaenen
    options: [食物, 水]
    ans: 食物
    hint: 吃的東西
`

func TestLessonAudioRequest(t *testing.T) {
	content, err := repository.ParseContent([]byte(lessonYAML), entities.ExactMatcher{})
	if err != nil {
		t.Fatalf("ParseContent() error = %v", err)
	}
	svc := service.NewLessonService(content)

	if len(svc.Vocabulary()) != 2 || len(svc.Sentences()) != 1 || svc.Unit().Number != 1 {
		t.Fatalf("unexpected lesson content")
	}

	tests := []struct {
		name    string
		kind    string
		index   int
		want    service.AudioRequest
		wantErr error
	}{
		{"vocab by headword", service.KindVocab, 0, service.AudioRequest{Ref: "Kakaenen", Text: "Kakaenen"}, nil},
		{"vocab with explicit ref", service.KindVocab, 1, service.AudioRequest{Ref: "nanom_v2", Text: "Nanom"}, nil},
		{"sentence", service.KindSentence, 0, service.AudioRequest{Ref: "Mafana' kiso?", Text: "Mafana' kiso?"}, nil},
		{"out of range", service.KindVocab, 5, service.AudioRequest{}, repository.ErrEntryNotFound},
		{"unknown kind", "grammar", 0, service.AudioRequest{}, service.ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.AudioRequest(tt.kind, tt.index)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AudioRequest() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("AudioRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQuestionAudioRequest(t *testing.T) {
	if _, ok := service.QuestionAudioRequest(entities.Question{Prompt: "Kakaenen"}); ok {
		t.Fatalf("question without audio reference must not be playable")
	}

	req, ok := service.QuestionAudioRequest(entities.Question{Prompt: "這是什麼？", AudioRef: "kakaenen"})
	if !ok || req.Ref != "kakaenen" || req.Text != "kakaenen" {
		t.Fatalf("unexpected request %+v", req)
	}
}
