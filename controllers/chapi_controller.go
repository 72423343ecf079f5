package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type ChapiController struct {
	Chapi *services.ChapiService
}

func NewChapiController(chapi *services.ChapiService) *ChapiController {
	return &ChapiController{Chapi: chapi}
}

// Message forwards the user's message to the assistant. When the assistant
// backend is down the client still gets a valid reply with the locally
// classified mood and a generic retry advice.
func (cc *ChapiController) Message(c *gin.Context) {
	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := cc.Chapi.SendMessage(c.Request.Context(), body.Message)
	if err != nil {
		log.Printf("chapi message failed: %v", err)
		c.JSON(http.StatusOK, services.ChapiReply{
			Mood:        services.ClassifyEmotionalState(body.Message),
			Advice:      "No pude procesar tu mensaje ahora mismo. Inténtalo de nuevo en un momento.",
			Suggestions: []services.ActionSuggestion{},
		})
		return
	}
	c.JSON(http.StatusOK, reply)
}
