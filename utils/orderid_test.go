package utils

import (
	"strings"
	"testing"
)

func TestNewOrderIDShape(t *testing.T) {
	id := NewOrderID()
	if !strings.HasPrefix(id, "ORD") {
		t.Fatalf("id %q lacks ORD prefix", id)
	}
	rest := strings.TrimPrefix(id, "ORD")
	// epoch millis (13 digits for today's dates) plus 5 suffix characters
	if len(rest) != 18 {
		t.Fatalf("id %q body length = %d, want 18", id, len(rest))
	}
	suffix := rest[len(rest)-5:]
	if suffix != strings.ToUpper(suffix) {
		t.Fatalf("suffix %q is not uppercase", suffix)
	}
	for _, r := range rest[:len(rest)-5] {
		if r < '0' || r > '9' {
			t.Fatalf("timestamp part of %q holds non-digit %q", id, r)
		}
	}
}

func TestNewOrderIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewOrderID()
		if seen[id] {
			t.Fatalf("duplicate order id %q", id)
		}
		seen[id] = true
	}
}
