package redisclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const userChannelPrefix = "notify:user:"

// Bus is a process-spanning fan-out for notification payloads. Every API
// instance publishes to a per-recipient Redis channel and runs one subscriber
// loop that relays matching messages into its local websocket connections.
type Bus struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewBus(client *redis.Client, log zerolog.Logger) *Bus {
	return &Bus{client: client, log: log}
}

// Publish sends payload to every subscriber of the recipient's channel.
// Delivery is best effort: a recipient with no live connection anywhere
// simply misses the push and reads the persisted record later.
func (b *Bus) Publish(ctx context.Context, recipientID uuid.UUID, payload []byte) error {
	channel := userChannelPrefix + recipientID.String()
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

// Run subscribes to all per-user channels and invokes deliver for each
// message until ctx is cancelled. Malformed channel names are skipped.
func (b *Bus) Run(ctx context.Context, deliver func(recipientID uuid.UUID, payload []byte)) error {
	sub := b.client.PSubscribe(ctx, userChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			id, err := uuid.Parse(strings.TrimPrefix(msg.Channel, userChannelPrefix))
			if err != nil {
				b.log.Warn().Str("channel", msg.Channel).Msg("ignoring message on malformed user channel")
				continue
			}
			deliver(id, []byte(msg.Payload))
		}
	}
}
