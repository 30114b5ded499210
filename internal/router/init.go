package router

import (
	"github.com/chambanica/chambanica-api/internal/application"
	"github.com/chambanica/chambanica-api/internal/container"
	"github.com/chambanica/chambanica-api/internal/infrastructure/postgres"
	handlers "github.com/chambanica/chambanica-api/internal/interface/http"
	"github.com/chambanica/chambanica-api/internal/router/modules"
)

// Deps holds every constructed service and handler, shared across modules.
type Deps struct {
	Users   *application.UserService
	Jobs    *application.JobService
	Chat    *application.ChatService
	Ratings *application.RatingService

	UserHandler   *handlers.UserHandler
	JobHandler    *handlers.JobHandler
	ChatHandler   *handlers.ChatHandler
	RatingHandler *handlers.RatingHandler
}

func buildDeps() Deps {
	pool := container.GetPGPool()
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := postgres.NewUserRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	convRepo := postgres.NewConversationRepository(pool)
	ratingRepo := postgres.NewRatingRepository(pool)

	userSvc := application.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
	)
	chatSvc := application.NewChatService(
		convRepo,
		jobRepo,
		userRepo,
		container.GetRedis(),
		container.GetRabbitPub(),
		logger,
	)
	jobSvc := application.NewJobService(
		jobRepo,
		userRepo,
		convRepo,
		chatSvc,
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESJobsIndex,
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
	)
	ratingSvc := application.NewRatingService(
		ratingRepo,
		jobRepo,
		userRepo,
		container.GetRedis(),
		container.GetRabbitPub(),
		logger,
	)

	return Deps{
		Users:   userSvc,
		Jobs:    jobSvc,
		Chat:    chatSvc,
		Ratings: ratingSvc,

		UserHandler:   handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
		JobHandler:    handlers.NewJobHandler(jobSvc, logger),
		ChatHandler:   handlers.NewChatHandler(chatSvc, logger),
		RatingHandler: handlers.NewRatingHandler(ratingSvc, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewUserModule(deps.UserHandler, jwt))
	r.Add(modules.NewJobModule(deps.JobHandler, jwt))
	r.Add(modules.NewChatModule(deps.ChatHandler, jwt))
	r.Add(modules.NewRatingModule(deps.RatingHandler, jwt))
}
