package schedulestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/domain/schedule"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type gormStore struct {
	log *logger.Logger
	db  *gorm.DB
	key string
}

// NewGormStore keeps the schedule as one schedule_document row. Replace is a
// single upsert statement.
func NewGormStore(db *gorm.DB, log *logger.Logger) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &gormStore{
		log: log.With("store", "GormScheduleStore"),
		db:  db,
		key: schedule.DefaultDocumentKey,
	}, nil
}

func (s *gormStore) Read(ctx context.Context) (types.Schedule, error) {
	var row schedule.Document
	err := s.db.WithContext(ctx).Where("doc_key = ?", s.key).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Schedule{}, nil
		}
		return nil, fmt.Errorf("read schedule row: %w", err)
	}
	return schedule.Decode(row.Body)
}

func (s *gormStore) Replace(ctx context.Context, sched types.Schedule) error {
	data, err := schedule.Encode(sched)
	if err != nil {
		return err
	}
	row := schedule.Document{
		Key:       s.key,
		Body:      datatypes.JSON(data),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("write schedule row: %w", err)
	}
	s.log.Debug("Schedule row replaced", "tasks", len(sched))
	return nil
}
