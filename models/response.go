package models

type AnalyzeResponse struct {
	Count    int             `json:"count"`
	Analyses []ImageAnalysis `json:"analyses"`
}

type ChatResponse struct {
	Answer    string   `json:"answer"`
	Chunks    []string `json:"chunks"`
	SessionID string   `json:"sessionID"`
}

type CodeResponse struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// TranscriptResponse is the structure for the response of the GET /sessions/:id/transcript endpoint.
type TranscriptResponse struct {
	SessionID string      `json:"sessionID"`
	Count     int         `json:"count"`
	Entries   []ChatEntry `json:"entries"`
}
