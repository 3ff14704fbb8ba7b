package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/logger"
)

// fakeSNSClient captures Publish inputs and optionally fails.
type fakeSNSClient struct {
	err    error
	inputs []*sns.PublishInput
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{}, nil
}

func TestSNSSinkSend(t *testing.T) {
	client := &fakeSNSClient{}
	sink := &snsSink{
		id:       "broadcast",
		typ:      TypeSNS,
		topicARN: "arn:aws:sns:us-east-1:123456789:reader-events",
		client:   client,
		log:      logger.NopLogger{},
	}

	evt := NewThemeEvent(domain.ThemeDark)
	if err := sink.Send(context.Background(), evt); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("got %d publishes, want 1", len(client.inputs))
	}
	input := client.inputs[0]
	if *input.TopicArn != sink.topicARN {
		t.Fatalf("topic arn = %q", *input.TopicArn)
	}

	attr, ok := input.MessageAttributes["action"]
	if !ok || *attr.StringValue != string(ActionThemeChanged) {
		t.Fatalf("action attribute = %+v", input.MessageAttributes)
	}

	var delivered Event
	if err := json.Unmarshal([]byte(*input.Message), &delivered); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if delivered.ThemeMode != "dark" {
		t.Fatalf("delivered event = %+v", delivered)
	}
}

func TestSNSSinkSendError(t *testing.T) {
	boom := errors.New("denied")
	sink := &snsSink{
		id:       "broadcast",
		typ:      TypeSNS,
		topicARN: "arn:aws:sns:us-east-1:123456789:reader-events",
		client:   &fakeSNSClient{err: boom},
		log:      logger.NopLogger{},
	}

	if err := sink.Send(context.Background(), NewPreferencesEvent()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestNewSNSSinkRequiresConfig(t *testing.T) {
	if _, err := newSNSSink(context.Background(), SinkConfig{ID: "broadcast", Type: TypeSNS}, logger.NopLogger{}); err == nil {
		t.Fatalf("expected error for missing sns config")
	}
}
