package envutil

import (
	"testing"
	"time"
)

func TestHelpersFallBackToDefaults(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "nope")
	t.Setenv("ENVUTIL_BOOL", "maybe")
	t.Setenv("ENVUTIL_SECONDS", "-3")
	t.Setenv("ENVUTIL_FLOAT", "warm")

	if got := Int("ENVUTIL_INT", 7); got != 7 {
		t.Fatalf("Int: got %d", got)
	}
	if got := Bool("ENVUTIL_BOOL", true); !got {
		t.Fatalf("Bool: expected default true")
	}
	if got := Seconds("ENVUTIL_SECONDS", time.Minute); got != time.Minute {
		t.Fatalf("Seconds: got %v", got)
	}
	if got := Float("ENVUTIL_FLOAT", nil); got != nil {
		t.Fatalf("Float: expected nil default, got %v", *got)
	}
	if got := String("ENVUTIL_MISSING", "x"); got != "x" {
		t.Fatalf("String: got %q", got)
	}
}

func TestHelpersParseValues(t *testing.T) {
	t.Setenv("ENVUTIL_INT", " 12 ")
	t.Setenv("ENVUTIL_BOOL", "off")
	t.Setenv("ENVUTIL_SECONDS", "5")
	t.Setenv("ENVUTIL_FLOAT", "0.7")

	if got := Int("ENVUTIL_INT", 0); got != 12 {
		t.Fatalf("Int: got %d", got)
	}
	if Bool("ENVUTIL_BOOL", true) {
		t.Fatalf("Bool: expected false")
	}
	if got := Seconds("ENVUTIL_SECONDS", 0); got != 5*time.Second {
		t.Fatalf("Seconds: got %v", got)
	}
	if got := Float("ENVUTIL_FLOAT", nil); got == nil || *got != 0.7 {
		t.Fatalf("Float: got %v", got)
	}
}
