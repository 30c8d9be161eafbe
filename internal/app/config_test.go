package app

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := NewConfigFromFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabasePath != "atm.db" || cfg.LogFile != "atm.log" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SessionTTL != 15*time.Minute || cfg.PinHashCost != bcrypt.DefaultCost {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestConfigFlags(t *testing.T) {
	cfg, err := NewConfigFromFlags([]string{"-d", "bank.db", "-session-ttl", "1m", "-pin-cost", "4"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabasePath != "bank.db" || cfg.SessionTTL != time.Minute || cfg.PinHashCost != 4 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestConfigEnvOverridesFlags(t *testing.T) {
	t.Setenv("DATABASE_PATH", "env.db")
	t.Setenv("SESSION_TTL", "30s")
	t.Setenv("LOG_FILE", "stderr")

	cfg, err := NewConfigFromFlags([]string{"-d", "flag.db"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabasePath != "env.db" || cfg.SessionTTL != 30*time.Second || cfg.LogFile != "stderr" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestConfigValidation(t *testing.T) {
	cases := [][]string{
		{"-d", ""},
		{"-session-ttl", "0s"},
		{"-pin-cost", "99"},
		{"-unknown"},
	}
	for _, args := range cases {
		if _, err := NewConfigFromFlags(args); err == nil {
			t.Fatalf("args %v: want error", args)
		}
	}

	t.Setenv("PIN_HASH_COST", "many")
	if _, err := NewConfigFromFlags(nil); err == nil {
		t.Fatal("want error for malformed PIN_HASH_COST")
	}
}

func TestSessionKey(t *testing.T) {
	cfg := &Config{SessionSecret: "fixed"}
	key, err := cfg.SessionKey()
	if err != nil || string(key) != "fixed" {
		t.Fatalf("key=%q err=%v", key, err)
	}

	cfg.SessionSecret = ""
	k1, _ := cfg.SessionKey()
	k2, _ := cfg.SessionKey()
	if len(k1) != 32 || string(k1) == string(k2) {
		t.Fatal("random keys should be 32 bytes and differ")
	}
}
