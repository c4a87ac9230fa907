package models

import "time"

type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Label is how the speaker is shown in a rendered transcript.
func (s Speaker) Label() string {
	switch s {
	case SpeakerUser:
		return "You"
	case SpeakerBot:
		return "Bot"
	default:
		return string(s)
	}
}

// ChatEntry is a single row of a session transcript.
type ChatEntry struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (e ChatEntry) String() string {
	return e.Speaker.Label() + ": " + e.Text
}

// TranscriptMode controls how a streamed answer is written to the transcript.
type TranscriptMode string

const (
	// TranscriptOnce appends the question once, ahead of the first chunk.
	TranscriptOnce TranscriptMode = "once"
	// TranscriptPerChunk appends the question again before every chunk. It
	// reproduces the duplicated rows of the legacy chatbot page.
	TranscriptPerChunk TranscriptMode = "per-chunk"
)
