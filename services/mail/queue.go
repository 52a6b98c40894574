package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"market/services/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrQueueClosed = errors.New("mail queue closed")

const sendTimeout = 30 * time.Second

// Queue accepts mails for asynchronous delivery. Enqueue returns once the
// mail is rendered and accepted; delivery errors are logged by the worker.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
}

// LocalQueue is an in-process worker pool over a buffered channel.
type LocalQueue struct {
	renderer *Renderer
	sender   Sender
	logger   logger.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan Envelope
	wg     sync.WaitGroup
}

func NewLocalQueue(renderer *Renderer, sender Sender, log logger.Logger, workers, buffer int) *LocalQueue {
	if workers < 1 {
		workers = 1
	}
	q := &LocalQueue{
		renderer: renderer,
		sender:   sender,
		logger:   log,
		jobs:     make(chan Envelope, buffer),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for env := range q.jobs {
				q.deliver(env)
			}
		}()
	}
	return q
}

func (q *LocalQueue) Enqueue(ctx context.Context, msg Message) error {
	env, err := q.renderer.Render(msg)
	if err != nil {
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting mails and waits for the workers to drain the buffer.
func (q *LocalQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *LocalQueue) deliver(env Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := q.sender.Send(ctx, env); err != nil {
		q.logger.Error("❌ mail to %s failed: %v", env.To, err)
		return
	}
	q.logger.Debug("mail sent to %s", env.To)
}

// RabbitQueue publishes rendered mails to a durable RabbitMQ queue. Consume
// runs the delivering side.
type RabbitQueue struct {
	conn     *amqp.Connection
	renderer *Renderer
	sender   Sender
	logger   logger.Logger
	name     string

	mu sync.Mutex
	ch *amqp.Channel
}

func DialRabbitQueue(url, name string, renderer *Renderer, sender Sender, log logger.Logger) (*RabbitQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	return &RabbitQueue{conn: conn, ch: ch, name: name, renderer: renderer, sender: sender, logger: log}, nil
}

func (q *RabbitQueue) Enqueue(ctx context.Context, msg Message) error {
	env, err := q.renderer.Render(msg)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ch.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Consume delivers queued mails until ctx is done or the broker closes the
// channel. Undeliverable mails are rejected without requeue.
func (q *RabbitQueue) Consume(ctx context.Context) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		q.logger.Warn("rabbitmq qos: %v", err)
	}
	deliveries, err := ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq deliveries channel closed")
			}
			if err := q.handle(ctx, d.Body); err != nil {
				q.logger.Error("❌ mail delivery failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (q *RabbitQueue) handle(ctx context.Context, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	return q.sender.Send(sendCtx, env)
}

func (q *RabbitQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	_ = q.ch.Close()
	return q.conn.Close()
}
