package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github/itish2003/neuronova/metrics"
	"github/itish2003/neuronova/models"
	"github/itish2003/neuronova/store"
)

var (
	ErrEmptyQuestion = errors.New("question must not be empty")
	// ErrStreamConsumed is yielded when a response stream is ranged over a second time.
	ErrStreamConsumed = errors.New("response stream already consumed")
)

// ResponderService answers questions with the image context of the current
// interaction and records every exchange in the session transcript.
type ResponderService interface {
	Respond(ctx context.Context, sessionID, question, imageContext string) iter.Seq2[string, error]
	Transcript(ctx context.Context, sessionID string) ([]models.ChatEntry, error)
}

type responderServiceImpl struct {
	model       ChatModel
	transcripts store.TranscriptStore
	mode        models.TranscriptMode
	opts        ModelOptions
	log         *zap.Logger
}

func NewResponderService(model ChatModel, transcripts store.TranscriptStore, mode models.TranscriptMode, opts ModelOptions, log *zap.Logger) ResponderService {
	if mode == "" {
		mode = models.TranscriptOnce
	}
	return &responderServiceImpl{
		model:       model,
		transcripts: transcripts,
		mode:        mode,
		opts:        opts,
		log:         log,
	}
}

// JoinContexts merges per-image contexts into the single block sent with a
// question. No contexts yields "", which BuildPrompt treats as absent.
func JoinContexts(contexts []string) string {
	return strings.Join(contexts, "\n")
}

// BuildPrompt returns the question unchanged when there is no context.
func BuildPrompt(question, imageContext string) string {
	if imageContext == "" {
		return question
	}
	return "Context: " + imageContext + "\nQuestion: " + question
}

func (s *responderServiceImpl) Transcript(ctx context.Context, sessionID string) ([]models.ChatEntry, error) {
	return s.transcripts.Entries(ctx, sessionID)
}

// Respond returns the model's answer as a stream of text chunks. The stream
// can be ranged over once; transcript rows are written as chunks are pulled,
// so a consumer that stops early leaves only what it has seen.
func (s *responderServiceImpl) Respond(ctx context.Context, sessionID, question, imageContext string) iter.Seq2[string, error] {
	prompt := BuildPrompt(question, imageContext)
	var consumed atomic.Bool

	return func(yield func(string, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield("", ErrStreamConsumed)
			return
		}
		if question == "" {
			yield("", ErrEmptyQuestion)
			return
		}
		if sessionID == "" {
			yield("", store.ErrInvalidSessionID)
			return
		}

		s.log.Info("Sending question to chat model",
			zap.String("session_id", sessionID),
			zap.Bool("with_context", imageContext != ""),
			zap.String("mode", string(s.mode)))

		callCtx, cancel := s.opts.callContext(ctx)
		defer cancel()

		b := s.opts.Retry.newBackOff()
		delivered := 0
		for attempt := 1; ; attempt++ {
			stopped, err := s.pump(callCtx, sessionID, question, prompt, &delivered, yield)
			if stopped {
				metrics.RecordChatRequest(metrics.StatusSuccess)
				return
			}
			if err == nil {
				metrics.RecordChatRequest(metrics.StatusSuccess)
				s.log.Info("Chat response complete",
					zap.String("session_id", sessionID),
					zap.Int("chunks", delivered))
				return
			}

			// Only a stream that has not produced anything can be replayed.
			if delivered == 0 && attempt <= s.opts.Retry.MaxRetries && IsRetryable(err) {
				wait := b.NextBackOff()
				s.log.Warn("Chat stream failed before first chunk, retrying",
					zap.String("session_id", sessionID),
					zap.Int("attempt", attempt),
					zap.Duration("backoff", wait),
					zap.Error(err))

				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
					continue
				case <-callCtx.Done():
					timer.Stop()
					err = callCtx.Err()
				}
			}

			metrics.RecordChatRequest(metrics.StatusError)
			s.log.Error("Chat response failed",
				zap.String("session_id", sessionID),
				zap.Int("chunks", delivered),
				zap.Error(err))
			yield("", err)
			return
		}
	}
}

// pump forwards one model stream to yield. It reports stopped when the
// consumer broke out of the loop.
func (s *responderServiceImpl) pump(ctx context.Context, sessionID, question, prompt string, delivered *int, yield func(string, error) bool) (bool, error) {
	for chunk, err := range s.model.StreamChat(ctx, prompt) {
		if err != nil {
			return false, err
		}
		// per-chunk mode mirrors the legacy page, which recorded every frame.
		if chunk == "" && s.mode != models.TranscriptPerChunk {
			continue
		}
		if err := s.record(ctx, sessionID, question, chunk, *delivered == 0); err != nil {
			return false, err
		}
		*delivered++
		metrics.RecordChatChunk()
		if !yield(chunk, nil) {
			return true, nil
		}
	}
	return false, nil
}

func (s *responderServiceImpl) record(ctx context.Context, sessionID, question, chunk string, first bool) error {
	now := time.Now()
	entries := make([]models.ChatEntry, 0, 2)
	if first || s.mode == models.TranscriptPerChunk {
		entries = append(entries, models.ChatEntry{Speaker: models.SpeakerUser, Text: question, CreatedAt: now})
	}
	entries = append(entries, models.ChatEntry{Speaker: models.SpeakerBot, Text: chunk, CreatedAt: now})

	if err := s.transcripts.Append(ctx, sessionID, entries...); err != nil {
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	for _, entry := range entries {
		metrics.RecordTranscriptEntry(string(entry.Speaker))
	}
	return nil
}
