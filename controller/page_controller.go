package controller

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github/itish2003/neuronova/models"
	"github/itish2003/neuronova/services"
)

const (
	pageTitle     = "NeuroNova-Multi Image and Text Conversational Chatbot"
	sessionCookie = "neuronova_session"

	actionRespond = "respond"
	actionCode    = "code"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates for router.SetHTMLTemplate.
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// pageView is everything the chat page renders for one interaction.
type pageView struct {
	Title      string
	Analyses   []models.ImageAnalysis
	ImageError string
	Question   string
	Answer     []string
	Code       string
	Error      string
	Transcript []models.ChatEntry
}

// PageController serves the browser UI. Every submit is one interaction:
// the uploaded images are analyzed again, the requested action runs and the
// whole transcript is rendered.
type PageController struct {
	extractor     services.ExtractorService
	responder     services.ResponderService
	maxUploadSize int64
	log           *zap.Logger
}

func NewPageController(extractor services.ExtractorService, responder services.ResponderService, maxUploadSize int64, log *zap.Logger) *PageController {
	return &PageController{
		extractor:     extractor,
		responder:     responder,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

// Show is the Gin handler for GET /.
func (c *PageController) Show(ctx *gin.Context) {
	sessionID := c.session(ctx)
	c.render(ctx, http.StatusOK, sessionID, pageView{Title: pageTitle})
}

// Interact is the Gin handler for POST /.
func (c *PageController) Interact(ctx *gin.Context) {
	sessionID := c.session(ctx)
	reqCtx := ctx.Request.Context()
	// Uploads are read first so the body limit is in place before the form is parsed.
	images, err := readUploads(ctx, c.maxUploadSize)
	view := pageView{
		Title:    pageTitle,
		Question: ctx.PostForm("question"),
	}
	if err != nil {
		view.ImageError = err.Error()
	} else if len(images) > 0 {
		analyses, err := c.extractor.ExtractAll(reqCtx, images)
		switch {
		case err == nil:
			view.Analyses = analyses
		case services.IsInputError(err):
			// Only the image step is skipped; the question is still answered.
			view.ImageError = err.Error()
		default:
			c.fail(ctx, sessionID, view, err)
			return
		}
	}

	contexts := make([]string, 0, len(view.Analyses))
	for _, analysis := range view.Analyses {
		contexts = append(contexts, analysis.Context)
	}

	switch ctx.PostForm("action") {
	case actionRespond:
		if view.Question == "" {
			break
		}
		for chunk, err := range c.responder.Respond(reqCtx, sessionID, view.Question, services.JoinContexts(contexts)) {
			if err != nil {
				c.fail(ctx, sessionID, view, err)
				return
			}
			view.Answer = append(view.Answer, chunk)
		}
	case actionCode:
		if len(images) == 0 || view.Question == "" {
			break
		}
		code, err := services.RenderCodeTemplate(contexts, view.Question)
		if err != nil {
			c.fail(ctx, sessionID, view, err)
			return
		}
		view.Code = code
	}

	c.render(ctx, http.StatusOK, sessionID, view)
}

func (c *PageController) fail(ctx *gin.Context, sessionID string, view pageView, err error) {
	c.log.Error("Interaction failed", zap.String("session_id", sessionID), zap.Error(err))
	view.Error = err.Error()
	c.render(ctx, http.StatusInternalServerError, sessionID, view)
}

func (c *PageController) render(ctx *gin.Context, status int, sessionID string, view pageView) {
	transcript, err := c.responder.Transcript(ctx.Request.Context(), sessionID)
	if err != nil {
		c.log.Error("Failed to load transcript", zap.String("session_id", sessionID), zap.Error(err))
		if view.Error == "" {
			view.Error = err.Error()
		}
		status = http.StatusInternalServerError
	}
	view.Transcript = transcript
	ctx.HTML(status, "index.html", view)
}

// session returns the caller's session id, issuing a new cookie on first visit.
func (c *PageController) session(ctx *gin.Context) string {
	if id, err := ctx.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.New().String()
	ctx.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}
