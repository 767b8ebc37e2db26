package ship

import (
	"github.com/lionnelpat/svs-backend-sub002/internal/ship/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/ship/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ship.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
