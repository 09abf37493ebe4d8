package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/agenda-backend/internal/data/repos"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type Repos struct {
	Turn repos.TurnRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Turn: repos.NewTurnRepo(db, log),
	}
}
