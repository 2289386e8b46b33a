package repository

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/kakaenen/assets"
	"github.com/aliskhannn/kakaenen/internal/domain/entities"
)

var (
	ErrEntryNotFound  = errors.New("content entry not found")
	ErrInvalidContent = errors.New("invalid content")
)

// ContentRepository provides read-only access to the lesson content.
// Content is loaded once and never modified afterwards.
type ContentRepository struct {
	unit      entities.Unit
	vocab     []entities.VocabEntry
	sentences []entities.SentenceEntry
	questions []entities.Question
}

// contentFile mirrors the YAML layout of a lesson file.
type contentFile struct {
	Unit struct {
		Number   int    `yaml:"number"`
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
	} `yaml:"unit"`
	Vocabulary []entryRecord    `yaml:"vocabulary"`
	Sentences  []entryRecord    `yaml:"sentences"`
	Quiz       []questionRecord `yaml:"quiz"`
}

// entryRecord accepts both the short lesson keys (amis, chi) and the long ones (headword, translation).
type entryRecord struct {
	Amis        string `yaml:"amis"`
	Headword    string `yaml:"headword"`
	Chi         string `yaml:"chi"`
	Translation string `yaml:"translation"`
	Icon        string `yaml:"icon"`
	Source      string `yaml:"source"`
	Audio       string `yaml:"audio"`
}

func (r entryRecord) text() string {
	if r.Amis != "" {
		return r.Amis
	}
	return r.Headword
}

func (r entryRecord) translation() string {
	if r.Chi != "" {
		return r.Chi
	}
	return r.Translation
}

type questionRecord struct {
	Q       string   `yaml:"q"`
	Prompt  string   `yaml:"prompt"`
	Audio   string   `yaml:"audio"`
	Options []string `yaml:"options"`
	Ans     string   `yaml:"ans"`
	Answer  string   `yaml:"answer"`
	Hint    string   `yaml:"hint"`
}

func (r questionRecord) toQuestion() entities.Question {
	q := entities.Question{
		Prompt:        r.Q,
		AudioRef:      r.Audio,
		Options:       r.Options,
		CorrectAnswer: r.Ans,
		Hint:          r.Hint,
	}
	if q.Prompt == "" {
		q.Prompt = r.Prompt
	}
	if q.CorrectAnswer == "" {
		q.CorrectAnswer = r.Answer
	}
	return q
}

// NewContentRepository loads lesson content from path on fs.
// An empty path selects the lesson bundled with the binary.
func NewContentRepository(fs afero.Fs, path string, matcher entities.AnswerMatcher) (*ContentRepository, error) {
	var (
		data []byte
		err  error
	)

	if path == "" {
		data, err = assets.Content.ReadFile(assets.DefaultContentFile)
	} else {
		data, err = afero.ReadFile(fs, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	return ParseContent(data, matcher)
}

// ParseContent decodes and validates a lesson file.
func ParseContent(data []byte, matcher entities.AnswerMatcher) (*ContentRepository, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file contentFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal content YAML: %v", ErrInvalidContent, err)
	}

	repo := &ContentRepository{
		unit: entities.Unit{
			Number:   file.Unit.Number,
			Title:    file.Unit.Title,
			Subtitle: file.Unit.Subtitle,
		},
		vocab:     make([]entities.VocabEntry, 0, len(file.Vocabulary)),
		sentences: make([]entities.SentenceEntry, 0, len(file.Sentences)),
		questions: make([]entities.Question, 0, len(file.Quiz)),
	}

	for i, rec := range file.Vocabulary {
		if rec.text() == "" || rec.translation() == "" {
			return nil, fmt.Errorf("%w: vocabulary entry %d needs a headword and a translation", ErrInvalidContent, i)
		}
		repo.vocab = append(repo.vocab, entities.VocabEntry{
			Headword:    rec.text(),
			Translation: rec.translation(),
			Icon:        rec.Icon,
			Source:      rec.Source,
			AudioRef:    rec.Audio,
		})
	}

	for i, rec := range file.Sentences {
		if rec.text() == "" || rec.translation() == "" {
			return nil, fmt.Errorf("%w: sentence %d needs text and a translation", ErrInvalidContent, i)
		}
		repo.sentences = append(repo.sentences, entities.SentenceEntry{
			Text:        rec.text(),
			Translation: rec.translation(),
			Icon:        rec.Icon,
			Source:      rec.Source,
			AudioRef:    rec.Audio,
		})
	}

	for i, rec := range file.Quiz {
		q := rec.toQuestion()
		if err := q.Validate(matcher); err != nil {
			return nil, fmt.Errorf("%w: quiz question %d: %w", ErrInvalidContent, i, err)
		}
		repo.questions = append(repo.questions, q)
	}

	return repo, nil
}

// Unit returns the lesson metadata.
func (r *ContentRepository) Unit() entities.Unit {
	return r.unit
}

// Vocabulary returns all vocabulary entries in authored order.
func (r *ContentRepository) Vocabulary() []entities.VocabEntry {
	return append([]entities.VocabEntry(nil), r.vocab...)
}

// Sentences returns all sentences in authored order.
func (r *ContentRepository) Sentences() []entities.SentenceEntry {
	return append([]entities.SentenceEntry(nil), r.sentences...)
}

// Questions returns the quiz pool.
func (r *ContentRepository) Questions() []entities.Question {
	return append([]entities.Question(nil), r.questions...)
}

// VocabAt returns the vocabulary entry at index i.
func (r *ContentRepository) VocabAt(i int) (entities.VocabEntry, error) {
	if i < 0 || i >= len(r.vocab) {
		return entities.VocabEntry{}, fmt.Errorf("%w: vocabulary %d", ErrEntryNotFound, i)
	}
	return r.vocab[i], nil
}

// SentenceAt returns the sentence at index i.
func (r *ContentRepository) SentenceAt(i int) (entities.SentenceEntry, error) {
	if i < 0 || i >= len(r.sentences) {
		return entities.SentenceEntry{}, fmt.Errorf("%w: sentence %d", ErrEntryNotFound, i)
	}
	return r.sentences[i], nil
}

// QuestionAt returns the pool question at index i.
func (r *ContentRepository) QuestionAt(i int) (entities.Question, error) {
	if i < 0 || i >= len(r.questions) {
		return entities.Question{}, fmt.Errorf("%w: question %d", ErrEntryNotFound, i)
	}
	return r.questions[i], nil
}
