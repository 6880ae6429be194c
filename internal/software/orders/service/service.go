package service

import (
	"log/slog"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/ws"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/rabbitmq"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/notify"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/places"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// orderService implements the customer-facing order operations.
type orderService struct {
	logger   *slog.Logger
	uow      ports.UnitOfWork
	orders   ports.OrderRepository
	coords   ports.CoordinatesRepository
	pub      *rabbitmq.MQPublisher
	rabbitmq *rabbitmq.Client
	hub      *ws.Hub
	finder   places.Finder
	notifier notify.Notifier

	// demoMode short-circuits persistence and returns a mock order,
	// mirroring the old API's demo switch.
	demoMode bool
}

// NewOrderService wires the order service with its dependencies.
func NewOrderService(
	logger *slog.Logger,
	uow ports.UnitOfWork,
	orders ports.OrderRepository,
	coords ports.CoordinatesRepository,
	pub *rabbitmq.MQPublisher,
	client *rabbitmq.Client,
	hub *ws.Hub,
	finder places.Finder,
	notifier notify.Notifier,
	demoMode bool,
) ports.OrderService {
	return &orderService{
		logger:   logger,
		uow:      uow,
		orders:   orders,
		coords:   coords,
		pub:      pub,
		rabbitmq: client,
		hub:      hub,
		finder:   finder,
		notifier: notifier,
		demoMode: demoMode,
	}
}
