package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mymmrac/telego"

	"liarsbar-bot/internal/apperrors"
)

// Dispatcher consumes parsed updates. Business failures stay inside it.
type Dispatcher interface {
	HandleUpdate(ctx context.Context, update telego.Update)
}

// Handler is the webhook ingress: Telegram POSTs one update per request, and
// GET on the same path is the liveness probe.
type Handler struct {
	dispatcher Dispatcher
}

func NewHandler(dispatcher Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

func (h *Handler) Register(router *gin.Engine) {
	router.POST("/api/webhook", h.handleUpdate)
	router.GET("/api/webhook", h.handleLiveness)
}

// handleUpdate answers 200 once the update is parsed and dispatched. The
// business outcome does not matter to Telegram; a failed onboarding already
// replied to the user in chat, and a 5xx here would only make Telegram
// redeliver the same update.
func (h *Handler) handleUpdate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("Error reading webhook body (%s): %v", apperrors.CategoryTransport, apperrors.Transport("read body", err))
		c.Status(http.StatusInternalServerError)
		return
	}

	var update telego.Update
	if err := json.Unmarshal(body, &update); err != nil {
		log.Printf("Error parsing webhook body (%s): %v", apperrors.CategoryTransport, apperrors.Transport("parse update", err))
		c.Status(http.StatusInternalServerError)
		return
	}

	h.dispatcher.HandleUpdate(c.Request.Context(), update)
	c.Status(http.StatusOK)
}

func (h *Handler) handleLiveness(c *gin.Context) {
	c.String(http.StatusOK, "Bot is running")
}
