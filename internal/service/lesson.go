package service

import (
	"errors"
	"fmt"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
)

// Kinds of playable browse entries.
const (
	KindVocab    = "vocab"
	KindSentence = "sentence"
)

var ErrUnknownKind = errors.New("unknown content kind")

// LessonService serves the browse view and maps entries to audio requests.
type LessonService struct {
	content ContentRepository
}

func NewLessonService(content ContentRepository) *LessonService {
	return &LessonService{content: content}
}

func (s *LessonService) Unit() entities.Unit {
	return s.content.Unit()
}

func (s *LessonService) Vocabulary() []entities.VocabEntry {
	return s.content.Vocabulary()
}

func (s *LessonService) Sentences() []entities.SentenceEntry {
	return s.content.Sentences()
}

// AudioRequest builds the playback request for the browse entry of the given kind at index.
// Entries without an explicit audio reference are looked up by their text.
func (s *LessonService) AudioRequest(kind string, index int) (AudioRequest, error) {
	switch kind {
	case KindVocab:
		v, err := s.content.VocabAt(index)
		if err != nil {
			return AudioRequest{}, err
		}
		return AudioRequest{Ref: refOrText(v.AudioRef, v.Headword), Text: v.SpeechText()}, nil

	case KindSentence:
		sn, err := s.content.SentenceAt(index)
		if err != nil {
			return AudioRequest{}, err
		}
		return AudioRequest{Ref: refOrText(sn.AudioRef, sn.Text), Text: sn.SpeechText()}, nil

	default:
		return AudioRequest{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// QuestionAudioRequest builds the playback request for a quiz question.
func QuestionAudioRequest(q entities.Question) (AudioRequest, bool) {
	if q.AudioRef == "" {
		return AudioRequest{}, false
	}
	return AudioRequest{Ref: q.AudioRef, Text: q.SpeechText()}, true
}

func refOrText(ref, text string) string {
	if ref != "" {
		return ref
	}
	return text
}
