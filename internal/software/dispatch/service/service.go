package service

import (
	"log/slog"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/ws"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/rabbitmq"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/notify"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// dispatchService holds all dependencies required by the driver-side flows.
type dispatchService struct {
	logger    *slog.Logger
	uow       ports.UnitOfWork
	providers ports.ProviderRepository
	orders    ports.OrderRepository
	events    ports.OrderEventRepository
	coords    ports.CoordinatesRepository
	cache     ports.LocationCache
	pub       *rabbitmq.MQPublisher
	rabbitmq  *rabbitmq.Client
	hub       *ws.Hub
	notifier  notify.Notifier
}

// NewDispatchService constructs the service with required dependencies.
func NewDispatchService(
	logger *slog.Logger,
	uow ports.UnitOfWork,
	providers ports.ProviderRepository,
	orders ports.OrderRepository,
	events ports.OrderEventRepository,
	coords ports.CoordinatesRepository,
	cache ports.LocationCache,
	pub *rabbitmq.MQPublisher,
	client *rabbitmq.Client,
	hub *ws.Hub,
	notifier notify.Notifier,
) ports.DispatchService {
	return &dispatchService{
		logger:    logger,
		uow:       uow,
		providers: providers,
		orders:    orders,
		events:    events,
		coords:    coords,
		cache:     cache,
		pub:       pub,
		rabbitmq:  client,
		hub:       hub,
		notifier:  notifier,
	}
}
