package service

import (
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// adminService encapsulates the admin dashboard service logic and dependencies.
type adminService struct {
	uow       ports.UnitOfWork
	orders    ports.OrderRepository
	providers ports.ProviderRepository
}

// NewAdminService creates a new instance of the AdminService with the provided dependencies.
func NewAdminService(
	uow ports.UnitOfWork,
	orders ports.OrderRepository,
	providers ports.ProviderRepository,
) ports.AdminService {
	return &adminService{
		uow:       uow,
		orders:    orders,
		providers: providers,
	}
}
