package stubapi

import (
	"time"

	"talentify-client/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type notificationHandler struct {
	s *Server
}

func newNotificationHandler(s *Server) *notificationHandler {
	return &notificationHandler{s: s}
}

func (h *notificationHandler) RegisterRoutes(r fiber.Router) {
	n := r.Group("/notifications")
	n.Get("/:userId", h.List)
	n.Post("/:userId/read_all", h.MarkAllRead)
	n.Post("/:userId/:id/read", h.MarkRead)
}

func (h *notificationHandler) List(ctx *fiber.Ctx) error {
	records := h.s.db.listNotifications(ctx.Params("userId"))
	out := make([]dto.NotificationPayload, 0, len(records))
	for _, n := range records {
		out = append(out, dto.NotificationPayload{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			Timestamp: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return ctx.JSON(out)
}

func (h *notificationHandler) MarkRead(ctx *fiber.Ctx) error {
	h.s.db.markRead(ctx.Params("userId"), ctx.Params("id"))
	return ctx.JSON(dto.MessageResponse{Message: "Notification marked as read"})
}

func (h *notificationHandler) MarkAllRead(ctx *fiber.Ctx) error {
	h.s.db.markRead(ctx.Params("userId"), "")
	return ctx.JSON(dto.MessageResponse{Message: "All notifications marked as read"})
}
