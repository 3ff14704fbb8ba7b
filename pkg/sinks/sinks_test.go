package sinks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const registryYAML = `
sinks:
  - id: queue-main
    type: sqs
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123456789/reader-events
      region: us-east-1
  - id: broadcast
    type: sns
    enabled: false
    sns:
      topic_arn: arn:aws:sns:us-east-1:123456789:reader-events
      region: us-east-1
  - id: analytics
    type: pubsub
    pubsub:
      project_id: reader-prod
      topic: reader-events
  - id: webhook
    type: http
    http:
      url: https://hooks.example.com/reader
      headers:
        Authorization: "Bearer token "
        Empty: ""
`

func writeRegistryFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write registry file: %v", err)
	}
	return path
}

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry(writeRegistryFile(t, "sinks.yaml", registryYAML))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	all := reg.All()
	if len(all) != 4 {
		t.Fatalf("got %d sinks, want 4", len(all))
	}

	enabled := reg.Enabled()
	if len(enabled) != 3 {
		t.Fatalf("got %d enabled sinks, want 3", len(enabled))
	}
	for _, cfg := range enabled {
		if cfg.ID == "broadcast" {
			t.Fatalf("disabled sink returned from Enabled")
		}
	}
}

func TestLoadRegistrySanitizesHTTPDefaults(t *testing.T) {
	reg, err := LoadRegistry(writeRegistryFile(t, "sinks.yaml", registryYAML))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	var webhook *SinkConfig
	for _, cfg := range reg.All() {
		if cfg.ID == "webhook" {
			c := cfg
			webhook = &c
		}
	}
	if webhook == nil || webhook.HTTP == nil {
		t.Fatalf("webhook sink not loaded")
	}
	if webhook.HTTP.Method != "POST" {
		t.Fatalf("Method = %q, want default POST", webhook.HTTP.Method)
	}
	if webhook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("TimeoutSeconds = %d, want default", webhook.HTTP.TimeoutSeconds)
	}
	if got := webhook.HTTP.Headers["Authorization"]; got != "Bearer token" {
		t.Fatalf("Authorization header = %q, want trimmed", got)
	}
	if _, ok := webhook.HTTP.Headers["Empty"]; ok {
		t.Fatalf("empty header should be dropped")
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	content := `{"sinks": [{"id": "webhook", "type": "http", "http": {"url": "https://hooks.example.com/reader"}}]}`
	reg, err := LoadRegistry(writeRegistryFile(t, "sinks.json", content))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 1 {
		t.Fatalf("got %d sinks, want 1", len(reg.All()))
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	content := `
sinks:
  - id: webhook
    type: http
    http:
      url: https://hooks.example.com/a
  - id: webhook
    type: http
    http:
      url: https://hooks.example.com/b
`
	if _, err := LoadRegistry(writeRegistryFile(t, "sinks.yaml", content)); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("err = %v, want duplicate id error", err)
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing id", "sinks:\n  - type: http\n    http:\n      url: https://x\n"},
		{"missing type", "sinks:\n  - id: a\n"},
		{"unknown type", "sinks:\n  - id: a\n    type: kafka\n"},
		{"sqs without uri", "sinks:\n  - id: a\n    type: sqs\n    sqs:\n      region: us-east-1\n"},
		{"sqs without region", "sinks:\n  - id: a\n    type: sqs\n    sqs:\n      uri: https://x\n"},
		{"sns without arn", "sinks:\n  - id: a\n    type: sns\n    sns:\n      region: us-east-1\n"},
		{"pubsub without topic", "sinks:\n  - id: a\n    type: pubsub\n    pubsub:\n      project_id: p\n"},
		{"http without url", "sinks:\n  - id: a\n    type: http\n    http:\n      method: POST\n"},
		{"no entries", "sinks: []\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadRegistry(writeRegistryFile(t, "sinks.yaml", tc.content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	if _, err := LoadRegistry(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
