package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github/itish2003/neuronova/models"
	"github/itish2003/neuronova/services"
)

// ChatController handles the JSON API. It depends on the extractor and
// responder services for the actual work.
type ChatController struct {
	extractor     services.ExtractorService
	responder     services.ResponderService
	maxUploadSize int64
	log           *zap.Logger
}

func NewChatController(extractor services.ExtractorService, responder services.ResponderService, maxUploadSize int64, log *zap.Logger) *ChatController {
	return &ChatController{
		extractor:     extractor,
		responder:     responder,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

// AnalyzeImages is the Gin handler for the POST /api/v1/analyze endpoint.
// It expects one or more files in the "images" multipart field.
func (c *ChatController) AnalyzeImages(ctx *gin.Context) {
	images, err := readUploads(ctx, c.maxUploadSize)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(images) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	analyses, err := c.extractor.ExtractAll(ctx.Request.Context(), images)
	if err != nil {
		if services.IsInputError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.log.Error("Failed to analyze images", zap.Int("count", len(images)), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze images"})
		return
	}

	ctx.JSON(http.StatusOK, models.AnalyzeResponse{
		Count:    len(analyses),
		Analyses: analyses,
	})
}

// Chat is the Gin handler for the POST /api/v1/chat endpoint. A request
// without a session id starts a new session whose id is returned.
func (c *ChatController) Chat(ctx *gin.Context) {
	var req models.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	stream := c.responder.Respond(ctx.Request.Context(), sessionID, req.Question, services.JoinContexts(req.Contexts))

	if req.Stream {
		ctx.Header("Cache-Control", "no-cache")
		ctx.Header("X-Session-ID", sessionID)
		for chunk, err := range stream {
			if err != nil {
				c.log.Error("Chat stream failed", zap.String("session_id", sessionID), zap.Error(err))
				ctx.SSEvent("error", gin.H{"error": "Failed to generate AI response"})
				ctx.Writer.Flush()
				return
			}
			ctx.SSEvent("chunk", gin.H{"text": chunk})
			ctx.Writer.Flush()
		}
		ctx.SSEvent("done", gin.H{"sessionID": sessionID})
		return
	}

	var chunks []string
	for chunk, err := range stream {
		if err != nil {
			c.log.Error("Chat failed", zap.String("session_id", sessionID), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate AI response"})
			return
		}
		chunks = append(chunks, chunk)
	}

	ctx.JSON(http.StatusOK, models.ChatResponse{
		Answer:    strings.Join(chunks, ""),
		Chunks:    chunks,
		SessionID: sessionID,
	})
}

// GenerateCode is the Gin handler for the POST /api/v1/code endpoint.
func (c *ChatController) GenerateCode(ctx *gin.Context) {
	var req models.CodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if len(req.Contexts) == 0 || req.Question == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Both image contexts and a question are required"})
		return
	}

	code, err := services.RenderCodeTemplate(req.Contexts, req.Question)
	if err != nil {
		c.log.Error("Failed to render code template", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate code"})
		return
	}

	ctx.JSON(http.StatusOK, models.CodeResponse{Language: "java", Code: code})
}

// GetTranscript is the Gin handler for the GET /api/v1/sessions/:id/transcript endpoint.
func (c *ChatController) GetTranscript(ctx *gin.Context) {
	sessionID := ctx.Param("id")

	entries, err := c.responder.Transcript(ctx.Request.Context(), sessionID)
	if err != nil {
		c.log.Error("Failed to load transcript", zap.String("session_id", sessionID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transcript"})
		return
	}

	ctx.JSON(http.StatusOK, models.TranscriptResponse{
		SessionID: sessionID,
		Count:     len(entries),
		Entries:   entries,
	})
}

// HealthCheck reports liveness.
func HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "NeuroNova API",
		"version": "1.0.0",
	})
}

// ConfigError answers every request with message. It is mounted instead of
// the real routes when the service cannot start properly.
func ConfigError(message string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.String(http.StatusServiceUnavailable, message)
	}
}
