// Package notify holds the outbound notification channels. Every channel is
// a logging stub: there is no SMS gateway or mail provider behind them, the
// call sites are real and the delivery is a structured log line.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
)

// Notifier fans a message out over one channel.
type Notifier interface {
	SendSMS(ctx context.Context, to, message string) error
	SendEmail(ctx context.Context, to, subject, body string) error
	SendPush(ctx context.Context, userID, title, body string) error
}

// LogNotifier writes every notification to the service log instead of
// delivering it.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) SendSMS(ctx context.Context, to, message string) error {
	log.Info(ctx, notifier.logger, "notify_sms",
		fmt.Sprintf("SMS to %s: %s", to, message))
	return nil
}

func (notifier *LogNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	log.Info(ctx, notifier.logger, "notify_email",
		fmt.Sprintf("Email to %s [%s]: %s", to, subject, body))
	return nil
}

func (notifier *LogNotifier) SendPush(ctx context.Context, userID, title, body string) error {
	log.Info(ctx, notifier.logger, "notify_push",
		fmt.Sprintf("Push to user %s [%s]: %s", userID, title, body))
	return nil
}
