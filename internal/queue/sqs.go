// Package queue publishes thumbnail regeneration jobs to the work
// queue. Delivery is at-least-once and fire-and-forget: nothing in
// this service waits on job completion or tracks acknowledgments.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
)

// RegenerationJob is the message payload consumed by the out-of-band
// thumbnail worker.
type RegenerationJob struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Dispatcher publishes regeneration jobs to a single SQS destination.
// Safe for concurrent use.
type Dispatcher struct {
	client   sqsiface.SQSAPI
	queueURL string
}

// NewDispatcher creates a dispatcher for the given queue URL.
func NewDispatcher(client sqsiface.SQSAPI, queueURL string) *Dispatcher {
	return &Dispatcher{
		client:   client,
		queueURL: queueURL,
	}
}

// Dispatch enqueues a regeneration job for the identifier and its
// validated source image URL. The caller decides whether an enqueue
// failure is degraded or fatal.
func (d *Dispatcher) Dispatch(ctx context.Context, id, sourceURL string) error {
	body, err := json.Marshal(RegenerationJob{ID: id, URL: sourceURL})
	if err != nil {
		return fmt.Errorf("marshal regeneration job for %q: %w", id, err)
	}

	_, err = d.client.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(d.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("enqueue regeneration job for %q: %w", id, err)
	}

	return nil
}
