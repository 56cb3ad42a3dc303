package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// testBackend runs the behaviour every backend shares.
func testBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = ok %v, err %v", ok, err)
	}

	if err := b.Set(ctx, "k1", []byte(`{"zoom":1}`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := b.Set(ctx, "k1", []byte(`{"zoom":2}`)); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	if err := b.Set(ctx, "a/b c", []byte(`{}`)); err != nil {
		t.Fatalf("Set() odd key error: %v", err)
	}

	data, ok, err := b.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get(k1) = ok %v, err %v", ok, err)
	}
	if string(data) != `{"zoom":2}` {
		t.Errorf("Get(k1) = %s", data)
	}

	keys, err := b.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a/b c", "k1"}, keys); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	if err := b.Delete(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete() of missing key error: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k1"); ok {
		t.Error("Get() after Delete() found key")
	}
}

func TestMemoryBackend(t *testing.T) {
	testBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testBackend(t, b)
}

func TestFileBackendPathLayout(t *testing.T) {
	dir := t.TempDir()
	b, _ := NewFileBackend(dir)
	if err := b.Set(context.Background(), "global", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	hash := hashKey("global")
	if _, err := os.Stat(filepath.Join(dir, hash[:2], hash[2:]+".json")); err != nil {
		t.Errorf("entry not at hashed path: %v", err)
	}
}

func TestFileBackendDropsCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	b, _ := NewFileBackend(dir)
	path := b.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("garbage"), 0o644)

	if _, ok, err := b.Get(context.Background(), "k"); ok || err != nil {
		t.Errorf("Get() = ok %v, err %v; want miss", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestFileBackendLockHonoursContext(t *testing.T) {
	b, _ := NewFileBackend(t.TempDir())
	unlock, err := b.Lock(context.Background(), "k")
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	other, _ := NewFileBackend(b.Dir())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := other.Lock(ctx, "k"); err == nil {
		t.Error("Lock() succeeded while another handle held it")
	}
}

func TestSQLiteBackend(t *testing.T) {
	b, err := NewSQLiteBackend(context.Background(), filepath.Join(t.TempDir(), "db", "layouts.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	testBackend(t, b)
}

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("RANGEDECK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("RANGEDECK_TEST_REDIS_URL not set")
	}
	b, err := NewRedisBackend(context.Background(), url, "rangedeck-test:"+t.Name()+":")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	testBackend(t, b)
}

func TestMongoBackend(t *testing.T) {
	uri := os.Getenv("RANGEDECK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("RANGEDECK_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	b, err := NewMongoBackend(ctx, uri, "rangedeck_test", "layouts_"+time.Now().Format("150405"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = b.coll.Drop(ctx)
		b.Close()
	}()
	testBackend(t, b)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{"memory", Config{Backend: "memory"}, "memory", false},
		{"default is file", Config{Dir: dir}, "file", false},
		{"sqlite in dir", Config{Backend: "sqlite", Dir: dir}, "sqlite", false},
		{"file without dir", Config{Backend: "file"}, "", true},
		{"redis without url", Config{Backend: "redis"}, "", true},
		{"unknown", Config{Backend: "etcd"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer b.Close()
			if b.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", b.Name(), tt.want)
			}
		})
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := RetryDelay
	RetryDelay = time.Millisecond
	t.Cleanup(func() { RetryDelay = old })

	transient := errors.New("connection reset")

	t.Run("retries retryable errors", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			if calls < 3 {
				return Retryable(transient)
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d; want nil, 3", err, calls)
		}
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return Retryable(transient)
		})
		if !errors.Is(err, transient) || calls != 3 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return transient
		})
		if err != transient || calls != 1 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if Retryable(nil) != nil {
			t.Error("Retryable(nil) != nil")
		}
	})
}
