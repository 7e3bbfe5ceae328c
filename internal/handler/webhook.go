package handler

import (
	"net/http"
	"strconv"

	"github.com/Steffany-Martins/botCheckin/internal/service"
	"github.com/Steffany-Martins/botCheckin/internal/util"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives Twilio's inbound WhatsApp callbacks.
type WebhookHandler struct {
	router *service.RouterService
}

func NewWebhookHandler(router *service.RouterService) *WebhookHandler {
	return &WebhookHandler{router: router}
}

type inboundMessage struct {
	From      string `json:"From"`
	Body      string `json:"Body"`
	Latitude  string `json:"Latitude"`
	Longitude string `json:"Longitude"`
}

// Receive handles POST /webhook. Twilio sends form-encoded fields; location
// shares arrive as Latitude/Longitude. JSON bodies are accepted for local
// testing. Every business outcome answers 200 with a TwiML <Message> body,
// so Twilio never retries a handled message.
func (h *WebhookHandler) Receive(c *gin.Context) {
	msg := inboundMessage{
		From:      c.PostForm("From"),
		Body:      c.PostForm("Body"),
		Latitude:  c.PostForm("Latitude"),
		Longitude: c.PostForm("Longitude"),
	}
	if msg.From == "" && c.ContentType() == "application/json" {
		_ = c.ShouldBindJSON(&msg)
	}

	var lat, lng *float64
	if v, err := strconv.ParseFloat(msg.Latitude, 64); err == nil {
		lat = &v
	}
	if v, err := strconv.ParseFloat(msg.Longitude, 64); err == nil {
		lng = &v
	}

	reply := h.router.HandleMessage(c.Request.Context(), msg.From, msg.Body, lat, lng)
	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(util.TwiML(reply)))
}
