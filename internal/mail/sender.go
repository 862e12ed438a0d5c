package mail

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// DirectSender delivers confirmation codes synchronously.
type DirectSender struct {
	Mailer Mailer
	From   string
}

func (s *DirectSender) SendConfirmationCode(email, code string) error {
	return s.Mailer.Send(ConfirmationMessage(s.From, email, code))
}

// Publisher is the part of the RabbitMQ client QueueSender needs.
type Publisher interface {
	Publish(body []byte) error
}

// Job is the queued form of a confirmation email.
type Job struct {
	Email string `json:"email"`
	Code  string `json:"confirmation_code"`
}

// QueueSender hands confirmation codes to the mail queue.
type QueueSender struct {
	Publisher Publisher
}

func (s *QueueSender) SendConfirmationCode(email, code string) error {
	body, err := json.Marshal(Job{Email: email, Code: code})
	if err != nil {
		return fmt.Errorf("failed to marshal mail job: %w", err)
	}
	return s.Publisher.Publish(body)
}

// DeliveryHandler returns a consumer callback that sends each queued job
// through mailer.
func DeliveryHandler(mailer Mailer, from string) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var job Job
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			return fmt.Errorf("failed to decode mail job: %w", err)
		}
		if job.Email == "" || job.Code == "" {
			return fmt.Errorf("mail job %s is incomplete", msg.MessageId)
		}
		return mailer.Send(ConfirmationMessage(from, job.Email, job.Code))
	}
}
