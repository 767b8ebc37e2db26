package operation

import (
	"github.com/lionnelpat/svs-backend-sub002/internal/operation/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/operation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("operation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
