package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/tracking"
)

// LocationFeed adapts the location fanout exchange to the tracking engine's
// feed contract. Each subscription gets its own exclusive auto-delete queue,
// so every tracking session sees the full broadcast and filters by driver.
type LocationFeed struct {
	client *Client
	logger *slog.Logger
}

// NewLocationFeed constructs a LocationFeed on top of an established client.
func NewLocationFeed(client *Client, logger *slog.Logger) *LocationFeed {
	return &LocationFeed{client: client, logger: logger}
}

// Subscribe binds a fresh queue to the fanout exchange and streams pings for
// the given driver. The returned stop function is idempotent; the ping
// channel is closed when the subscription ends for any reason.
func (feed *LocationFeed) Subscribe(ctx context.Context, driverID string) (<-chan tracking.DriverPing, func(), error) {
	ch, err := feed.client.newConsumerChannel(0)
	if err != nil {
		return nil, nil, err
	}

	// server-named, exclusive, auto-delete: the queue dies with the channel
	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("rabbitmq: declare feed queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, "", contracts.ExchangeLocationFanout, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("rabbitmq: bind feed queue: %w", err)
	}

	deliveries, err := ch.Consume(queue.Name, "", true /* autoAck */, true /* exclusive */, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("rabbitmq: consume feed queue: %w", err)
	}

	pings := make(chan tracking.DriverPing, 16)
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() { _ = ch.Close() })
	}

	go func() {
		defer close(pings)
		for {
			select {
			case <-ctx.Done():
				stop()
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				ping, ok := feed.decode(ctx, d, driverID)
				if !ok {
					continue
				}
				select {
				case pings <- ping:
				default:
					// slow session; drop the sample rather than block the feed
				}
			}
		}
	}()

	return pings, stop, nil
}

// decode unmarshals a fanout delivery and filters it down to the subscribed
// driver. Malformed payloads are logged and skipped.
func (feed *LocationFeed) decode(ctx context.Context, d amqp.Delivery, driverID string) (tracking.DriverPing, bool) {
	var msg contracts.LocationUpdateMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Error(ctx, feed.logger, "location_feed_decode_failed", "Dropping malformed location update", err)
		return tracking.DriverPing{}, false
	}
	if msg.DriverID != driverID {
		return tracking.DriverPing{}, false
	}
	return tracking.DriverPing{
		Position: geo.Coordinate{
			Latitude:  msg.Location.Lat,
			Longitude: msg.Location.Lng,
		},
		ObservedAt: msg.Timestamp,
	}, true
}
