package controller

import (
	"github.com/gin-gonic/gin"

	"github/itish2003/neuronova/metrics"
)

// RegisterRoutes mounts the page, the JSON API, health and metrics endpoints.
func RegisterRoutes(router *gin.Engine, chat *ChatController, page *PageController) error {
	tmpl, err := LoadTemplates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/", page.Show)
	router.POST("/", page.Interact)

	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/analyze", chat.AnalyzeImages)
		apiV1.POST("/chat", chat.Chat)
		apiV1.POST("/code", chat.GenerateCode)
		apiV1.GET("/sessions/:id/transcript", chat.GetTranscript)
	}
	return nil
}

// RegisterConfigErrorRoutes answers every path with message.
func RegisterConfigErrorRoutes(router *gin.Engine, message string) {
	router.NoRoute(ConfigError(message))
}
