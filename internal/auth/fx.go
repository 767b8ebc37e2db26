package auth

import (
	"github.com/lionnelpat/svs-backend-sub002/internal/auth/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/auth/service"
	"github.com/lionnelpat/svs-backend-sub002/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
