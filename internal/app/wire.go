//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	adapterrepo "github.com/lexikon-app/lexikon/internal/adapter/repository"
	"github.com/lexikon-app/lexikon/internal/infrastructure/config"
	"github.com/lexikon-app/lexikon/internal/infrastructure/database"
	"github.com/lexikon-app/lexikon/internal/infrastructure/logging"
	"github.com/lexikon-app/lexikon/internal/repository"
	"github.com/lexikon-app/lexikon/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewConnection,
)

var repositorySet = wire.NewSet(
	adapterrepo.NewReviewCardRepository,
	adapterrepo.NewDifficultyProfileRepository,
	adapterrepo.NewPracticeLogRepository,
	wire.Bind(new(repository.ReviewCardRepository), new(*adapterrepo.ReviewCardRepository)),
	wire.Bind(new(repository.ReviewReportingRepository), new(*adapterrepo.ReviewCardRepository)),
	wire.Bind(new(repository.DifficultyProfileRepository), new(*adapterrepo.DifficultyProfileRepository)),
	wire.Bind(new(repository.PracticeLogRepository), new(*adapterrepo.PracticeLogRepository)),
)

var usecaseSet = wire.NewSet(
	usecase.NewReviewUsecase,
	usecase.NewDifficultyUsecase,
	usecase.NewSessionUsecase,
	usecase.NewStatsUsecase,
	newRNG,
	newBackupService,
)

var loggingSet = wire.NewSet(
	logging.NewLogger,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		loggingSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
