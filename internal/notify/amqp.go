// Package notify publishes contact-form submissions to RabbitMQ so staff
// tooling can pick them up. Failures are logged and returned; callers treat
// them as best effort.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/dom/nonprofit-site/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultQueue = "contact.submitted"

// ContactSubmitted is the message body published for each new contact.
type ContactSubmitted struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone,omitempty"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

func NewContactSubmitted(c *domain.Contact) ContactSubmitted {
	return ContactSubmitted{
		ID:      c.ID.String(),
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Subject: c.Subject,
		Message: c.Message,
		Date:    c.Date,
	}
}

// AMQPNotifier dials the broker per message; submissions are rare enough
// that a held connection would mostly sit idle.
type AMQPNotifier struct {
	url   string
	queue string
}

func NewAMQPNotifier(url, queue string) *AMQPNotifier {
	if queue == "" {
		queue = DefaultQueue
	}
	return &AMQPNotifier{url: url, queue: queue}
}

func (n *AMQPNotifier) Queue() string {
	return n.queue
}

// Publishing builds the persistent JSON message for c.
func (n *AMQPNotifier) Publishing(c *domain.Contact) (amqp.Publishing, error) {
	body, err := json.Marshal(NewContactSubmitted(c))
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    c.ID.String(),
		Timestamp:    time.Now().UTC(),
		Type:         n.queue,
		Body:         body,
	}, nil
}

func (n *AMQPNotifier) NotifyContact(ctx context.Context, c *domain.Contact) error {
	pub, err := n.Publishing(c)
	if err != nil {
		log.Printf("rabbitmq: marshal contact failed: %v", err)
		return err
	}

	conn, err := amqp.DialConfig(n.url, amqp.Config{
		Dial: amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		n.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		n.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
