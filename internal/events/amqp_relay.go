package events

import (
	"context"

	"github.com/paylight/bankcore/internal/domain/event"
	"github.com/paylight/bankcore/pkg/helpers"
)

// AMQPRelay returns a handler that forwards events to RabbitMQ for
// consumers outside this process. Delivery failures surface as handler
// errors, which the publisher logs and isolates like any other subscriber
// failure.
func AMQPRelay(pub *helpers.RabbitPublisher) Handler {
	return func(ctx context.Context, e event.Event) error {
		return pub.PublishJSON(ctx, e)
	}
}
