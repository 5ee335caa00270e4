package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestFileCache_SetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	want := []byte(`{"data":{"monitors":[]}}`)
	if err := c.Set("https://example.test/monitor?rbl=4903", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get("https://example.test/monitor?rbl=4903")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileCache_Miss(t *testing.T) {
	c, err := NewFileCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, ok := c.Get("never-stored"); ok {
		t.Error("expected cache miss")
	}
}

func TestFileCache_Expiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir(), -time.Second)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set("key", []byte("value")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := c.Get("key"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestFileCache_Clear(t *testing.T) {
	c, err := NewFileCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set("a", []byte("1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("b", []byte("2")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, ok := c.Get("a"); ok {
		t.Error("expected cleared entry to miss")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected cleared entry to miss")
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if got := DefaultCacheDir(); got != "/tmp/xdg/echtzeitinfo" {
		t.Errorf("got %q", got)
	}
}
