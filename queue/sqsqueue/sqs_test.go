/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package sqsqueue

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	storeerrors "github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/queue"
)

type fakeSQS struct {
	queues      map[string][]types.Message
	inFlight    map[string]types.Message
	seq         int
	lastReceive *sqs.ReceiveMessageInput
	deleteErr   error
}

func newFakeSQS() *fakeSQS {
	return &fakeSQS{queues: make(map[string][]types.Message), inFlight: make(map[string]types.Message)}
}

func urlOf(name string) string { return "https://sqs.local/000000000000/" + name }

func (f *fakeSQS) CreateQueue(ctx context.Context, in *sqs.CreateQueueInput, _ ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error) {
	url := urlOf(*in.QueueName)
	if _, ok := f.queues[url]; !ok {
		f.queues[url] = nil
	}
	return &sqs.CreateQueueOutput{QueueUrl: aws.String(url)}, nil
}

func (f *fakeSQS) GetQueueUrl(ctx context.Context, in *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	url := urlOf(*in.QueueName)
	if _, ok := f.queues[url]; !ok {
		return nil, &types.QueueDoesNotExist{}
	}
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String(url)}, nil
}

func (f *fakeSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.seq++
	id := strconv.Itoa(f.seq)
	f.queues[*in.QueueUrl] = append(f.queues[*in.QueueUrl], types.Message{MessageId: aws.String(id), Body: in.MessageBody})
	return &sqs.SendMessageOutput{MessageId: aws.String(id)}, nil
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.lastReceive = in
	msgs := f.queues[*in.QueueUrl]
	if len(msgs) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	msg := msgs[0]
	f.queues[*in.QueueUrl] = msgs[1:]
	msg.ReceiptHandle = aws.String("rh-" + *msg.MessageId)
	f.inFlight[*msg.ReceiptHandle] = msg
	return &sqs.ReceiveMessageOutput{Messages: []types.Message{msg}}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.inFlight, *in.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

func TestRelayOverSQS(t *testing.T) {
	client := newFakeSQS()
	transport := NewSQSTransport(client)
	relay := queue.NewRelay(transport)
	ctx := context.Background()

	if err := transport.CreateQueue(ctx, "stock-updates"); err != nil {
		t.Fatalf("CreateQueue failed: %v", err)
	}
	if err := transport.CreateQueue(ctx, "stock-updates"); err != nil {
		t.Fatalf("second CreateQueue failed: %v", err)
	}

	if _, ok, err := relay.Receive(ctx, "stock-updates"); err != nil || ok {
		t.Fatalf("empty queue: ok=%v err=%v", ok, err)
	}

	if err := relay.Send(ctx, "stock-updates", `{"ProductId":"p1"}`); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	payload, ok, err := relay.Receive(ctx, "stock-updates")
	if err != nil || !ok || payload != `{"ProductId":"p1"}` {
		t.Fatalf("Receive = %q, %v, %v", payload, ok, err)
	}
	if len(client.inFlight) != 0 {
		t.Error("message was not deleted")
	}
	if client.lastReceive.MaxNumberOfMessages != 1 || client.lastReceive.WaitTimeSeconds != 0 {
		t.Errorf("unexpected receive input %+v", client.lastReceive)
	}
}

func TestWaitTimeOption(t *testing.T) {
	client := newFakeSQS()
	transport := NewSQSTransport(client, WithWaitTime(5), WithVisibilityTimeout(30))
	ctx := context.Background()
	if err := transport.CreateQueue(ctx, "q"); err != nil {
		t.Fatal(err)
	}

	if _, err := transport.Receive(ctx, "q"); err != nil {
		t.Fatal(err)
	}
	if client.lastReceive.WaitTimeSeconds != 5 || client.lastReceive.VisibilityTimeout != 30 {
		t.Errorf("options not applied: %+v", client.lastReceive)
	}
}

func TestMissingQueue(t *testing.T) {
	transport := NewSQSTransport(newFakeSQS())

	err := transport.Send(context.Background(), "nosuch", "x")
	if !storeerrors.IsBackendUnavailable(err) {
		t.Fatalf("expected backend error, got %v", err)
	}
	var missing *types.QueueDoesNotExist
	if !errors.As(err, &missing) {
		t.Error("backend error should unwrap to QueueDoesNotExist")
	}
}

func TestDeleteFailureSurfaces(t *testing.T) {
	client := newFakeSQS()
	transport := NewSQSTransport(client)
	relay := queue.NewRelay(transport)
	ctx := context.Background()
	if err := transport.CreateQueue(ctx, "q"); err != nil {
		t.Fatal(err)
	}
	if err := relay.Send(ctx, "q", "x"); err != nil {
		t.Fatal(err)
	}

	client.deleteErr = errors.New("receipt handle expired")
	if _, ok, err := relay.Receive(ctx, "q"); !storeerrors.IsBackendUnavailable(err) || ok {
		t.Errorf("expected delete failure, got ok=%v err=%v", ok, err)
	}
}
