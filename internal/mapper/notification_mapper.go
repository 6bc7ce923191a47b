package mapper

import (
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(p dto.NotificationPayload) entity.Notification {
	kind := entity.NotificationType(p.Type)
	switch kind {
	case entity.NotificationInfo, entity.NotificationSuccess, entity.NotificationWarning, entity.NotificationError:
	default:
		kind = entity.NotificationInfo
	}
	return entity.Notification{
		ID:        p.ID,
		Title:     p.Title,
		Message:   p.Message,
		Type:      kind,
		Read:      p.Read,
		Timestamp: p.Timestamp,
	}
}

func (m *NotificationMapper) ToEntities(payloads []dto.NotificationPayload) []entity.Notification {
	out := make([]entity.Notification, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, m.ToEntity(p))
	}
	return out
}
