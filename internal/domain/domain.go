package domain

import (
	"github.com/yungbote/agenda-backend/internal/domain/conversation"
	"github.com/yungbote/agenda-backend/internal/domain/schedule"
)

const (
	RoleUser      = conversation.RoleUser
	RoleAssistant = conversation.RoleAssistant

	TaskStatusPending = schedule.StatusPending
)

type Turn = conversation.Turn

func ValidRole(role string) bool { return conversation.ValidRole(role) }

type Task = schedule.Task
type Schedule = schedule.Schedule

// Models lists every gorm model that AutoMigrate must create.
func Models() []interface{} {
	return []interface{}{
		&conversation.Turn{},
		&schedule.Document{},
	}
}
