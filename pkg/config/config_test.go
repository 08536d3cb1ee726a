package config

import (
	"testing"
	"time"

	"github.com/objectstack/portal/pkg/transport"
	"github.com/objectstack/portal/pkg/wire"
)

func TestValidate(t *testing.T) {
	cfg := &Config{Addr: "localhost:7070"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Transport != transport.NameGRPC {
		t.Fatalf("default transport = %q", cfg.Transport)
	}

	cfg = &Config{Transport: transport.NameJSONRPC}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing address")
	}
}

func TestWireFormat(t *testing.T) {
	tests := []struct {
		in   string
		want wire.Format
	}{
		{"", wire.FormatOrdinal},
		{"ordinal", wire.FormatOrdinal},
		{"named", wire.FormatNamed},
		{"NAMED", wire.FormatNamed},
		{"bogus", wire.FormatOrdinal},
	}
	for _, tc := range tests {
		cfg := &Config{Format: tc.in}
		if got := cfg.WireFormat(); got != tc.want {
			t.Fatalf("WireFormat(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORTAL_FORMAT", "named")
	t.Setenv("PORTAL_TRANSPORT", "jsonrpc")
	t.Setenv("PORTAL_ADDR", "127.0.0.1:9090")
	t.Setenv("PORTAL_DEBUG", "true")
	t.Setenv("PORTAL_DIAL_TIMEOUT", "2s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Format != "named" || cfg.Transport != "jsonrpc" || cfg.Addr != "127.0.0.1:9090" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.Debug {
		t.Fatal("debug flag not parsed")
	}
	if cfg.Timeouts.Dial != 2*time.Second {
		t.Fatalf("dial timeout = %v", cfg.Timeouts.Dial)
	}
}

func TestTimeoutsWithDefaults(t *testing.T) {
	got := Timeouts{}.WithDefaults()
	if got.Dial != 5*time.Second || got.Call != 30*time.Second || got.Shutdown != 10*time.Second {
		t.Fatalf("defaults = %+v", got)
	}

	custom := Timeouts{Call: time.Minute}.WithDefaults()
	if custom.Call != time.Minute {
		t.Fatalf("explicit value overwritten: %v", custom.Call)
	}
	if custom.Dial != 5*time.Second {
		t.Fatalf("zero value not defaulted: %v", custom.Dial)
	}
}
