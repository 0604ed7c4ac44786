package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

// Store owns the gorm handle and hands out per-entity repositories.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the configured database and runs auto-migration.
func Open(cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database driver: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, log: log.With("component", "store")}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenTest opens an in-memory SQLite store for tests.
func OpenTest() (*Store, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	s := &Store{db: db, log: logger.NewNop()}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(
		&domain.User{},
		&domain.Track{},
		&domain.Module{},
		&domain.Lesson{},
		&domain.Enrollment{},
		&domain.Interview{},
		&domain.Certificate{},
		&domain.Activity{},
		&domain.LLMRequestLog{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// DB exposes the raw gorm handle for transactions.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Users() UserRepo {
	return &userRepo{db: s.db, log: s.log.With("repo", "users")}
}

func (s *Store) Tracks() TrackRepo {
	return &trackRepo{db: s.db, log: s.log.With("repo", "tracks")}
}

func (s *Store) Enrollments() EnrollmentRepo {
	return &enrollmentRepo{db: s.db, log: s.log.With("repo", "enrollments")}
}

func (s *Store) Interviews() InterviewRepo {
	return &interviewRepo{db: s.db, log: s.log.With("repo", "interviews")}
}

func (s *Store) Certificates() CertificateRepo {
	return &certificateRepo{db: s.db, log: s.log.With("repo", "certificates")}
}

func (s *Store) Activities() ActivityRepo {
	return &activityRepo{db: s.db, log: s.log.With("repo", "activities")}
}

func (s *Store) LLMRequests() LLMRequestRepo {
	return &llmRequestRepo{db: s.db}
}
