package user

import (
	"github.com/lionnelpat/svs-backend-sub002/internal/user/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
