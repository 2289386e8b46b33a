// Package entities contains domain entities used across the application.
package entities

// Unit describes the lesson unit the content belongs to.
type Unit struct {
	Number   int    // lesson number, e.g. 22
	Title    string // lesson title in the target language
	Subtitle string // topic in the learner's language
}

// VocabEntry is a single vocabulary card.
type VocabEntry struct {
	Headword    string // word in the target language
	Translation string // translation shown under the headword
	Icon        string // emoji shown on the card
	Source      string // attribution of the entry
	AudioRef    string // logical audio filename, empty when none is recorded
}

// SpeechText returns the text used for synthesized playback.
func (v VocabEntry) SpeechText() string {
	return v.Headword
}

// SentenceEntry is an example sentence.
type SentenceEntry struct {
	Text        string
	Translation string
	Icon        string
	Source      string
	AudioRef    string
}

// SpeechText returns the text used for synthesized playback.
func (s SentenceEntry) SpeechText() string {
	return s.Text
}
