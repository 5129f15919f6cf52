package notification

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/paylight/bankcore/pkg/helpers"
	"github.com/paylight/bankcore/pkg/mailer"
)

// Service is the side-effect port the use cases call. Implementations must
// be fast and best-effort: the caller logs a failure and moves on, it
// never blocks or fails the business operation on one.
type Service interface {
	SendWelcomeNotification(ctx context.Context, email, name string) error
}

// QueueService hands welcome notifications to RabbitMQ as email jobs, so
// sending happens out of band in the notify worker and the request path
// only pays for the enqueue.
type QueueService struct {
	pub *helpers.RabbitPublisher
}

func NewQueueService(pub *helpers.RabbitPublisher) *QueueService {
	return &QueueService{pub: pub}
}

func (s *QueueService) SendWelcomeNotification(ctx context.Context, email, name string) error {
	return s.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": name},
	})
}

// NoopService satisfies the port when no broker is configured, for local
// runs and tests. Each skipped notification is logged at debug level.
type NoopService struct {
	Logger *logrus.Logger
}

func (s NoopService) SendWelcomeNotification(ctx context.Context, email, name string) error {
	if s.Logger != nil {
		s.Logger.WithField("email", email).Debug("welcome notification skipped: no broker configured")
	}
	return nil
}

var (
	_ Service = (*QueueService)(nil)
	_ Service = NoopService{}
)
