// Package notify is the explicit notification channel between backend
// mutations and interested consumers (the web client via its realtime
// bridge, future workers). Publishers and subscribers are wired through
// this package only; there is no process-wide mutable event singleton.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

// Event kinds. Publishers: auth service (profile.updated), progress service
// (progress.updated, certificate.issued).
const (
	ProfileUpdated    = "profile.updated"
	ProgressUpdated   = "progress.updated"
	CertificateIssued = "certificate.issued"
)

// Event is one notification message.
type Event struct {
	Kind          string    `json:"kind"`
	UserID        string    `json:"userId"`
	TrackID       string    `json:"trackId,omitempty"`
	CertificateID string    `json:"certificateId,omitempty"`
	At            time.Time `json:"at"`
}

// Publisher sends events to the channel.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// RedisBus publishes events over a Redis pub/sub channel.
type RedisBus struct {
	rdb     *goredis.Client
	channel string
	log     *logger.Logger
}

// NewRedisBus connects and verifies the Redis endpoint.
func NewRedisBus(cfg config.RedisConfig, log *logger.Logger) (*RedisBus, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{
		rdb:     rdb,
		channel: cfg.Channel,
		log:     log.With("component", "notify"),
	}, nil
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Subscribe forwards channel events to onEvent until ctx is done.
func (b *RedisBus) Subscribe(ctx context.Context, onEvent func(Event)) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn("bad event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}

// NopPublisher drops every event. Used when Redis is not configured and in
// tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
