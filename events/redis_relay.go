package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultChannel is the Redis pub/sub channel product events are relayed to.
const DefaultChannel = "products:events"

// relayBuffer bounds how many events may wait for Redis before new ones are
// dropped.
const relayBuffer = 256

// RedisRelay forwards bus events to a Redis channel so list views in other
// processes can refresh too.
type RedisRelay struct {
	redis   *redis.Client
	channel string
	timeout time.Duration
}

func NewRedisRelay(client *redis.Client, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{
		redis:   client,
		channel: channel,
		timeout: 2 * time.Second,
	}
}

// Attach subscribes the relay to bus. Events are queued and published in
// order by a background goroutine, so a slow Redis never holds up the
// mutation that published them. The returned function unsubscribes, flushes
// what is already queued and waits for the goroutine to exit.
func (r *RedisRelay) Attach(bus *Bus) func() {
	queue := make(chan Event, relayBuffer)
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case e := <-queue:
				r.Forward(e)
			case <-stop:
				for {
					select {
					case e := <-queue:
						r.Forward(e)
					default:
						return
					}
				}
			}
		}
	}()

	unsubscribe := bus.Subscribe(func(e Event) {
		select {
		case queue <- e:
		default:
			zap.L().Warn("Relay queue full, dropping product event",
				zap.String("type", string(e.Type)),
				zap.String("product_id", e.ProductID),
			)
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			close(stop)
			<-done
		})
	}
}

// Forward publishes e on the relay channel. Failures are logged, never
// returned: a missing Redis must not fail a catalog mutation.
func (r *RedisRelay) Forward(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		zap.L().Warn("Failed to marshal product event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.redis.Publish(ctx, r.channel, payload).Err(); err != nil {
		zap.L().Warn("Failed to relay product event",
			zap.String("channel", r.channel),
			zap.String("type", string(e.Type)),
			zap.Error(err),
		)
	}
}
