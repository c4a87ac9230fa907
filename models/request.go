package models

// ChatRequest is the body of POST /api/v1/chat. Contexts are the image
// analyses returned by /api/v1/analyze for the current interaction.
type ChatRequest struct {
	Question  string   `json:"question" binding:"required"`
	Contexts  []string `json:"contexts,omitempty"`
	SessionID string   `json:"sessionID,omitempty"`
	Stream    bool     `json:"stream,omitempty"`
}

type CodeRequest struct {
	Question string   `json:"question"`
	Contexts []string `json:"contexts"`
}
