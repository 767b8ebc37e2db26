package expense

import (
	"github.com/lionnelpat/svs-backend-sub002/internal/expense/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
