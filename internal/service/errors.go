package service

import (
	"context"
	"errors"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrEmptyCart  = errors.New("cart is empty")
)

// EventPublisher is the sink for domain events. The Kafka producer
// implements it in production; tests pass a stub.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// NopPublisher drops every event. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }
