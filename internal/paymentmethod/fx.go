package paymentmethod

import (
	"github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod/service"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentmethod.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
