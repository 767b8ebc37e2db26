package expensecategory

import (
	"github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expensecategory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
