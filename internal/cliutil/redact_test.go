package cliutil

import (
	"strings"
	"testing"
)

func TestRedactSecretsMasksTemplateReferences(t *testing.T) {
	input := "token=${WORKER_TOKEN}"
	out := RedactSecrets(input)
	if strings.Contains(out, "WORKER_TOKEN") {
		t.Fatalf("template reference leaked: %q", out)
	}
}

func TestRedactSecretsMasksKnownKeys(t *testing.T) {
	input := "API_KEY=super-secret-value"
	out := RedactSecrets(input)
	if strings.Contains(out, "super-secret-value") {
		t.Fatalf("secret value leaked: %q", out)
	}
	if !strings.Contains(out, "API_KEY") {
		t.Fatalf("key name should survive redaction: %q", out)
	}
}

func TestRedactSecretsLeavesOrdinaryValues(t *testing.T) {
	input := "WORKERS=4"
	if out := RedactSecrets(input); out != input {
		t.Fatalf("ordinary value altered: %q", out)
	}
}
