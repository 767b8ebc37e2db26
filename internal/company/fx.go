package company

import (
	"github.com/lionnelpat/svs-backend-sub002/internal/company/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
