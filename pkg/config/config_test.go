package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: test
backend:
  type: clickhouse
server:
  port: 8080
engine:
  queue_size: 32
gateway:
  websocket_url: ws://localhost:9100/stream
  equipment: [pump-01, chiller-02]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Backend.Type != "clickhouse" {
		t.Fatalf("backend = %q", c.Backend.Type)
	}
	if c.Engine.QueueSize != 32 {
		t.Fatalf("queue size = %d", c.Engine.QueueSize)
	}
	if len(c.Gateway.Equipment) != 2 {
		t.Fatalf("equipment = %v", c.Gateway.Equipment)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\nbackend:\n  type: mqtt\n"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRequiresEnvironment(t *testing.T) {
	_, err := Load(writeConfig(t, "backend:\n  type: kafka\n"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	c, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Backend.Type != "kafka" {
		t.Fatalf("backend override failed: %q", c.Backend.Type)
	}
	if len(c.Kafka.Brokers) != 2 {
		t.Fatalf("brokers = %v", c.Kafka.Brokers)
	}
}
