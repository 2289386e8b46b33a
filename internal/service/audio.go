package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/infra/audio"
	"github.com/aliskhannn/kakaenen/internal/infra/tts"
)

// AudioSource tells where playable audio came from.
type AudioSource string

const (
	AudioRecorded    AudioSource = "recorded"
	AudioSynthesized AudioSource = "synthesized"
)

// DegradedReason explains why no audio is available.
type DegradedReason string

const (
	ReasonEmptyRequest        DegradedReason = "empty_request"
	ReasonNotFound            DegradedReason = "not_found"
	ReasonSynthesisFailed     DegradedReason = "synthesis_failed"
	ReasonRecordingUnreadable DegradedReason = "recording_unreadable"
)

// AudioRequest names the audio to play: a logical filename and the text to synthesize as fallback.
type AudioRequest struct {
	Ref  string
	Text string
}

// PlaybackResult is either playable audio or a degraded outcome with a reason.
type PlaybackResult struct {
	Data        []byte
	ContentType string
	Source      AudioSource
	Reason      DegradedReason // empty when audio is available
	Err         error          // underlying failure, if any
}

// Available reports whether the result carries audio.
func (r PlaybackResult) Available() bool {
	return r.Reason == "" && len(r.Data) > 0
}

func degraded(reason DegradedReason, err error) PlaybackResult {
	return PlaybackResult{Reason: reason, Err: err}
}

// AudioService finds recorded audio and falls back to speech synthesis.
// It never fails hard: every problem becomes a degraded PlaybackResult.
type AudioService struct {
	resolver    AudioResolver
	synthesizer SpeechSynthesizer // may be nil
	logger      *zap.Logger
}

// NewAudioService creates an AudioService. synthesizer may be nil.
func NewAudioService(resolver AudioResolver, synthesizer SpeechSynthesizer, logger *zap.Logger) *AudioService {
	return &AudioService{
		resolver:    resolver,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// candidates lists the filenames tried for a logical reference.
func candidates(ref string) []string {
	if ref == "" {
		return nil
	}
	if audio.IsAudioFile(ref) {
		return []string{ref}
	}
	return []string{ref + ".mp3", ref + ".m4a"}
}

// Play returns the recording for req.Ref when one is indexed, otherwise synthesized speech for req.Text.
func (s *AudioService) Play(ctx context.Context, req AudioRequest) PlaybackResult {
	if req.Ref == "" && req.Text == "" {
		return degraded(ReasonEmptyRequest, nil)
	}

	var readErr error
	for _, name := range candidates(req.Ref) {
		data, err := s.resolver.Resolve(name)
		if err == nil {
			path, _ := s.resolver.Lookup(name)
			return PlaybackResult{Data: data, ContentType: audio.ContentType(path), Source: AudioRecorded}
		}
		if !errors.Is(err, audio.ErrAudioNotFound) {
			s.logger.Warn("failed to read recorded audio", zap.String("ref", name), zap.Error(err))
			readErr = err
		}
	}

	text := req.Text
	if text == "" {
		text = req.Ref
	}

	if s.synthesizer == nil {
		if readErr != nil {
			return degraded(ReasonRecordingUnreadable, readErr)
		}
		return degraded(ReasonNotFound, audio.ErrAudioNotFound)
	}

	data, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		if errors.Is(err, tts.ErrNotConfigured) {
			if readErr != nil {
				return degraded(ReasonRecordingUnreadable, readErr)
			}
			return degraded(ReasonNotFound, audio.ErrAudioNotFound)
		}
		s.logger.Warn("speech synthesis failed", zap.String("text", text), zap.Error(err))
		return degraded(ReasonSynthesisFailed, err)
	}

	return PlaybackResult{Data: data, ContentType: "audio/mpeg", Source: AudioSynthesized}
}
