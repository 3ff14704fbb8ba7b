package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/logger"
)

// fakeSQSClient captures SendMessage inputs and optionally fails.
type fakeSQSClient struct {
	err    error
	inputs []*sqs.SendMessageInput
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSSinkSend(t *testing.T) {
	client := &fakeSQSClient{}
	sink := &sqsSink{
		id:       "queue-main",
		typ:      TypeSQS,
		queueURL: "https://sqs.us-east-1.amazonaws.com/123456789/reader-events",
		client:   client,
		log:      logger.NopLogger{},
	}

	evt := NewBookmarkEvent(ActionBookmarkAdded, domain.Article{URL: "https://example.com/a", Title: "A"})
	if err := sink.Send(context.Background(), evt); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("got %d messages, want 1", len(client.inputs))
	}
	input := client.inputs[0]
	if *input.QueueUrl != sink.queueURL {
		t.Fatalf("queue url = %q", *input.QueueUrl)
	}

	attr, ok := input.MessageAttributes["action"]
	if !ok || *attr.StringValue != string(ActionBookmarkAdded) {
		t.Fatalf("action attribute = %+v", input.MessageAttributes)
	}

	var delivered Event
	if err := json.Unmarshal([]byte(*input.MessageBody), &delivered); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if delivered.ArticleURL != "https://example.com/a" {
		t.Fatalf("delivered event = %+v", delivered)
	}
}

func TestSQSSinkSendError(t *testing.T) {
	boom := errors.New("throttled")
	sink := &sqsSink{
		id:       "queue-main",
		typ:      TypeSQS,
		queueURL: "https://sqs.us-east-1.amazonaws.com/123456789/reader-events",
		client:   &fakeSQSClient{err: boom},
		log:      logger.NopLogger{},
	}

	if err := sink.Send(context.Background(), NewPreferencesEvent()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestNewSQSSinkRequiresConfig(t *testing.T) {
	if _, err := newSQSSink(context.Background(), SinkConfig{ID: "queue-main", Type: TypeSQS}, logger.NopLogger{}); err == nil {
		t.Fatalf("expected error for missing sqs config")
	}
}
