package app

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lexikon-app/lexikon/internal/infrastructure/config"
	"github.com/lexikon-app/lexikon/internal/usecase"
	"github.com/lexikon-app/lexikon/internal/usecase/backup"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config     *config.Config
	Logger     *logrus.Logger
	DB         *sql.DB
	Review     usecase.ReviewUsecase
	Difficulty usecase.DifficultyUsecase
	Session    usecase.SessionUsecase
	Stats      usecase.StatsUsecase
	Backup     *backup.Service
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func newBackupService(cfg *config.Config, db *sql.DB) (*backup.Service, error) {
	return backup.NewService(db, cfg.DriverName())
}
