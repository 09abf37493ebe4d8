package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	SlowQuery    time.Duration
}

type Service struct {
	db      *gorm.DB
	log     *logger.Logger
	dialect string
}

// Open connects to the database named by dsn. postgres:// and postgresql://
// use the pgx-backed postgres driver; sqlite:// (or a bare file: DSN) opens
// a local sqlite database, which is what tests and single-machine runs use.
func Open(logg *logger.Logger, dsn string, opts Options) (*Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("missing DATABASE_URL")
	}
	serviceLog := logg.With("service", "DatabaseService")

	slow := opts.SlowQuery
	if slow <= 0 {
		slow = time.Second
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		dialector gorm.Dialector
		dialect   string
	)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		dialector, dialect = postgres.Open(dsn), "postgres"
	case strings.HasPrefix(dsn, "sqlite://"):
		dialector, dialect = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), "sqlite"
	case strings.HasPrefix(dsn, "file:"):
		dialector, dialect = sqlite.Open(dsn), "sqlite"
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme")
	}

	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql pool: %w", err)
	}
	if dialect == "sqlite" {
		// sqlite allows a single writer; serialize through one connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
	}

	serviceLog.Info("Database connected", "dialect", dialect)
	return &Service{db: gdb, log: serviceLog, dialect: dialect}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Dialect() string { return s.dialect }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
