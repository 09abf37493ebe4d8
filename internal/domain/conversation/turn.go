package conversation

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance in the dialogue log. Rows are append-only; the
// (created_at, id) pair is the ordering key.
type Turn struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;index:idx_conversation_turn_order,priority:2" json:"id"`
	Role      string    `gorm:"column:role;type:text;not null;index" json:"role"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP;index:idx_conversation_turn_order,priority:1" json:"created_at"`
}

func (Turn) TableName() string { return "conversation_turn" }

// Before reports whether t sorts strictly before o in log order.
func (t *Turn) Before(o *Turn) bool {
	if t.CreatedAt.Equal(o.CreatedAt) {
		return t.ID < o.ID
	}
	return t.CreatedAt.Before(o.CreatedAt)
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
