/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package sqsqueue

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	storeerrors "github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/queue"
)

// API is the part of the SQS client used by the transport.
type API interface {
	CreateQueue(ctx context.Context, params *sqs.CreateQueueInput, optFns ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error)
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// NewSQSClient creates an SQS client from a loaded AWS configuration.
func NewSQSClient(cfg aws.Config, endpoint string) *sqs.Client {
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// SQSTransport implements queue.Transport on Amazon SQS standard queues.
type SQSTransport struct {
	client            API
	waitTime          int32
	visibilityTimeout int32
}

// Option configures an SQSTransport
type Option func(*SQSTransport)

// WithWaitTime enables long polling for up to seconds on Receive.
func WithWaitTime(seconds int32) Option {
	return func(t *SQSTransport) {
		t.waitTime = seconds
	}
}

// WithVisibilityTimeout overrides the queue's visibility timeout for received messages.
func WithVisibilityTimeout(seconds int32) Option {
	return func(t *SQSTransport) {
		t.visibilityTimeout = seconds
	}
}

// NewSQSTransport creates a transport. Receive returns immediately on an
// empty queue unless WithWaitTime is set.
func NewSQSTransport(client API, opts ...Option) *SQSTransport {
	t := &SQSTransport{client: client}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CreateQueue creates a standard queue. SQS returns the existing queue when
// the attributes match.
func (t *SQSTransport) CreateQueue(ctx context.Context, name string) error {
	_, err := t.client.CreateQueue(ctx, &sqs.CreateQueueInput{QueueName: aws.String(name)})
	if err != nil {
		var exists *types.QueueNameExists
		if errors.As(err, &exists) {
			return nil
		}
		return storeerrors.NewBackendError("CreateQueue", name, err)
	}
	return nil
}

func (t *SQSTransport) Send(ctx context.Context, name, payload string) error {
	url, err := t.queueURL(ctx, name)
	if err != nil {
		return err
	}
	if _, err := t.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(url),
		MessageBody: aws.String(payload),
	}); err != nil {
		return storeerrors.NewBackendError("SendMessage", name, err)
	}
	return nil
}

func (t *SQSTransport) Receive(ctx context.Context, name string) (*queue.Delivery, error) {
	url, err := t.queueURL(ctx, name)
	if err != nil {
		return nil, err
	}
	out, err := t.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(url),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     t.waitTime,
		VisibilityTimeout:   t.visibilityTimeout,
	})
	if err != nil {
		return nil, storeerrors.NewBackendError("ReceiveMessage", name, err)
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}
	msg := out.Messages[0]
	return &queue.Delivery{
		ID:      aws.ToString(msg.MessageId),
		Receipt: aws.ToString(msg.ReceiptHandle),
		Payload: aws.ToString(msg.Body),
	}, nil
}

func (t *SQSTransport) Delete(ctx context.Context, name string, d *queue.Delivery) error {
	url, err := t.queueURL(ctx, name)
	if err != nil {
		return err
	}
	if _, err := t.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(url),
		ReceiptHandle: aws.String(d.Receipt),
	}); err != nil {
		return storeerrors.NewBackendError("DeleteMessage", name, err)
	}
	return nil
}

// queueURL is looked up on every call; the client caches nothing between operations.
func (t *SQSTransport) queueURL(ctx context.Context, name string) (string, error) {
	out, err := t.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(name)})
	if err != nil {
		return "", storeerrors.NewBackendError("GetQueueUrl", name, err)
	}
	return aws.ToString(out.QueueUrl), nil
}
