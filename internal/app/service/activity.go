package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type ActivityType string

const (
	ActivityLogin          ActivityType = "login"
	ActivityProfileUpdated ActivityType = "profile_updated"
)

// ActivityEvent is the queue payload consumed by the activity worker.
type ActivityEvent struct {
	Type   ActivityType `json:"type"`
	UserID string       `json:"user_id"`
	At     time.Time    `json:"at"`
}

type ActivityPublisher interface {
	Publish(ctx context.Context, ev ActivityEvent) error
}

// RedisActivityPublisher pushes events onto a Redis list; the worker pops
// from the other end.
type RedisActivityPublisher struct {
	rdb   *redis.Client
	queue string
}

func NewRedisActivityPublisher(rdb *redis.Client, queue string) *RedisActivityPublisher {
	return &RedisActivityPublisher{rdb: rdb, queue: queue}
}

func (p *RedisActivityPublisher) Publish(ctx context.Context, ev ActivityEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal activity event: %w", err)
	}
	if err := p.rdb.LPush(ctx, p.queue, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue activity event %s: %w", ev.Type, err)
	}
	return nil
}

func DecodeActivityEvent(raw string) (ActivityEvent, error) {
	var ev ActivityEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return ev, fmt.Errorf("decode activity event: %w", err)
	}
	if ev.Type == "" || ev.UserID == "" {
		return ev, fmt.Errorf("activity event missing type or user_id")
	}
	return ev, nil
}
