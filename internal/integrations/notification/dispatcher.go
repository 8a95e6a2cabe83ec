package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// Routing keys сообщений с кодами. Email/SMS шлюзы подписываются на свой ключ
const (
	RoutingKeyOTPEmail  = "notification.otp.email"
	RoutingKeyOTPMobile = "notification.otp.mobile"
)

// Publisher интерфейс публикации в брокер (pkg/mq)
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// OTPMessage сообщение для сервиса доставки
type OTPMessage struct {
	Channel   domain.Channel `json:"channel"`
	Target    string         `json:"target"`
	Code      string         `json:"code"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// QueueDispatcher отправляет коды через RabbitMQ
type QueueDispatcher struct {
	publisher Publisher
	ttl       time.Duration
}

func NewQueueDispatcher(publisher Publisher, ttl time.Duration) *QueueDispatcher {
	return &QueueDispatcher{publisher: publisher, ttl: ttl}
}

// Dispatch публикует код в очередь нужного канала
func (d *QueueDispatcher) Dispatch(ctx context.Context, channel domain.Channel, target, code string) error {
	key, err := routingKey(channel)
	if err != nil {
		return err
	}

	msg := OTPMessage{
		Channel:   channel,
		Target:    target,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(d.ttl),
	}

	if err := d.publisher.PublishJSON(ctx, key, msg); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

// LogDispatcher пишет код в лог вместо доставки. Используется, когда брокер выключен
type LogDispatcher struct {
	logger Logger
}

func NewLogDispatcher(logger Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, channel domain.Channel, target, code string) error {
	d.logger.Warn("Notification broker disabled, %s code for %s: %s", channel, MaskTarget(channel, target), code)
	return nil
}

func routingKey(channel domain.Channel) (string, error) {
	switch channel {
	case domain.ChannelEmail:
		return RoutingKeyOTPEmail, nil
	case domain.ChannelMobile:
		return RoutingKeyOTPMobile, nil
	default:
		return "", fmt.Errorf("unsupported channel %q", channel)
	}
}

// MaskTarget скрывает адрес для логов: jo***@mail.com, ******3210
func MaskTarget(channel domain.Channel, target string) string {
	if channel == domain.ChannelMobile {
		if len(target) <= 4 {
			return target
		}
		return strings.Repeat("*", len(target)-4) + target[len(target)-4:]
	}

	at := strings.IndexByte(target, '@')
	switch {
	case at < 0:
		return "***"
	case at <= 2:
		return target[:1] + "***" + target[at:]
	default:
		return target[:2] + "***" + target[at:]
	}
}
