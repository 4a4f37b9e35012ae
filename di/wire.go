//go:build wireinject
// +build wireinject

package di

import (
	"splitlease/config"
	"splitlease/infras/jwt"
	"splitlease/infras/kafka"
	"splitlease/infras/otel"
	"splitlease/infras/postgres"
	"splitlease/infras/redis"
	"splitlease/infras/s3"
	"splitlease/internal/events"
	"splitlease/permissions"
	"splitlease/shared/cache"
	"splitlease/transport/http"
	"splitlease/transport/http/middleware"
	"splitlease/transport/http/router"

	"github.com/google/wire"

	authService "splitlease/internal/domains/auth/service"
	listingRepository "splitlease/internal/domains/listing/repository"
	listingService "splitlease/internal/domains/listing/service"
	proposalRepository "splitlease/internal/domains/proposal/repository"
	proposalService "splitlease/internal/domains/proposal/service"
	userRepository "splitlease/internal/domains/user/repository"
	userService "splitlease/internal/domains/user/service"

	authHandler "splitlease/internal/handlers/auth"
	listingHandler "splitlease/internal/handlers/listing"
	proposalHandler "splitlease/internal/handlers/proposal"
	userHandler "splitlease/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.NewPublisher,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingService.New,
)

var proposalDomain = wire.NewSet(
	proposalRepository.New,
	proposalService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	listingDomain,
	proposalDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	listingHandler.New,
	proposalHandler.New,
	userHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
