package config

import (
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			APIBaseURL: "http://localhost:3000",
			SessionTTL: time.Hour,
			AppEnv:     "development",
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}

	c := base()
	c.APIBaseURL = " "
	if err := c.Validate(); err == nil {
		t.Fatal("empty API_BASE_URL must fail")
	}

	c = base()
	c.SessionTTL = 0
	if err := c.Validate(); err == nil {
		t.Fatal("zero SESSION_TTL must fail")
	}

	c = base()
	c.AppEnv = "production"
	if err := c.Validate(); err == nil {
		t.Fatal("production without COOKIE_SECURE must fail")
	}
	c.CookieSecure = true
	if err := c.Validate(); err != nil {
		t.Fatalf("production with secure cookie: %v", err)
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(""); got != nil {
		t.Fatalf("empty: %v", got)
	}
	got := splitList("a:9092, b:9092 ,,c:9092")
	if len(got) != 3 || got[0] != "a:9092" || got[2] != "c:9092" {
		t.Fatalf("got %v", got)
	}
}

func TestParseDuration(t *testing.T) {
	if d := parseDuration("30m"); d != 30*time.Minute {
		t.Fatalf("30m: %v", d)
	}
	// мусор откатывается к дефолту 12h
	if d := parseDuration("soon"); d != 12*time.Hour {
		t.Fatalf("fallback: %v", d)
	}
}
