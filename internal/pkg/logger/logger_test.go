package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "sk-123", "plan_id", "abc", "Authorization", "Bearer x", "dangling"})
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	if out[3] != "abc" {
		t.Fatalf("plan_id should pass through, got %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("authorization not redacted: %v", out[5])
	}
	if len(out) != 7 || out[6] != "dangling" {
		t.Fatalf("odd trailing key should be kept: %v", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("dev", "chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	l, err := New("production", "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("ok", "k", "v")
}
