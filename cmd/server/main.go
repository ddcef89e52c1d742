package main

import (
	authhandler "github.com/Alexandrudiun/spaces/internal/auth/handler"
	authservice "github.com/Alexandrudiun/spaces/internal/auth/service"
	deskhandler "github.com/Alexandrudiun/spaces/internal/desks/handler"
	deskrepo "github.com/Alexandrudiun/spaces/internal/desks/repository"
	deskservice "github.com/Alexandrudiun/spaces/internal/desks/service"
	deskvalidator "github.com/Alexandrudiun/spaces/internal/desks/validator"
	imageshandler "github.com/Alexandrudiun/spaces/internal/images/handler"
	userhandler "github.com/Alexandrudiun/spaces/internal/users/handler"
	userrepo "github.com/Alexandrudiun/spaces/internal/users/repository"
	userservice "github.com/Alexandrudiun/spaces/internal/users/service"
	uservalidator "github.com/Alexandrudiun/spaces/internal/users/validator"
	"github.com/Alexandrudiun/spaces/pkg/app"
	"github.com/Alexandrudiun/spaces/pkg/config"
	"github.com/Alexandrudiun/spaces/pkg/events"
)

const ServiceName = "spaces"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Connect()

	cfg.Log.Info("Starting Spaces service")

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)

	desksRepo := deskrepo.NewMongoDeskRepository(cfg)
	usersRepo := userrepo.NewMongoUserRepository(cfg)

	desksService := deskservice.NewDeskService(
		desksRepo,
		usersRepo,
		deskvalidator.NewDeskValidator(cfg.Log),
		producer,
		cfg,
	)
	usersService := userservice.NewUserService(
		usersRepo,
		desksRepo,
		uservalidator.NewUserValidator(cfg.Log),
		cfg,
	)
	authService := authservice.NewAuthService(
		usersRepo,
		uservalidator.NewUserValidator(cfg.Log),
		cfg,
	)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, producer,
		deskhandler.NewDeskHandler(desksService, cfg.Log),
		userhandler.NewUserHandler(usersService, cfg.Log),
		authhandler.NewAuthHandler(authService, cfg.Log),
		imageshandler.NewImagesHandler(cfg.ImagesDir, cfg.Log),
	)
	serverApp.Run()
}
