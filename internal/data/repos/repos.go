package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/agenda-backend/internal/data/repos/conversation"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type TurnRepo = conversation.TurnRepo

type TurnOrder = conversation.Order

const (
	OrderChronological = conversation.OrderChronological
	OrderNewestFirst   = conversation.OrderNewestFirst
)

func NewTurnRepo(db *gorm.DB, baseLog *logger.Logger) TurnRepo {
	return conversation.NewTurnRepo(db, baseLog)
}
