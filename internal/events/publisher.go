package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to the broker. A connection is dialed per publish
// so a broker restart never leaves the process holding a dead channel; the
// event rate here is one per mutation, not a firehose.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the given AMQP URL.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// Publish marshals the event and publishes it persistently to the events
// queue. Any error is logged and returned so the caller can ignore it.
func (p *Publisher) Publish(ctx context.Context, e Event) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("events: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("events: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(Queue, true, false, false, false, nil); err != nil {
		log.Printf("events: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(e)
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", Queue, false, false, pub); err != nil {
		log.Printf("events: publish failed: %v", err)
		return err
	}
	return nil
}
