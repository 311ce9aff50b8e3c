package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if _, ok := c.(NullCache); !ok {
		t.Fatalf("NewNullCache() = %T, want NullCache", c)
	}

	key := NewDefaultKeyer().CurveKey(Hash([]byte(`{"parents":[-1,0]}`)))
	if err := c.Set(ctx, key, []byte(`{"area":2}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || hit || data != nil {
		t.Errorf("Get after Set = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestKeyFormat(t *testing.T) {
	treeHash := Hash([]byte(`{"parents":[-1,0,0]}`))
	if len(treeHash) != 64 || strings.Trim(treeHash, "0123456789abcdef") != "" {
		t.Fatalf("Hash = %q, want 64 lowercase hex chars", treeHash)
	}
	if Hash([]byte(`{"parents":[-1,0,0]}`)) != treeHash {
		t.Error("Hash should be deterministic")
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "curve",
			got:  digest("curve", treeHash),
			want: "curve:" + Hash([]byte(`["`+treeHash+`"]`)),
		},
		{
			name: "search",
			got:  digest("search", "abc", []int{1, 2}, []int{3}, "minimize", false),
			want: "search:" + Hash([]byte(`["abc",[1,2],[3],"minimize",false]`)),
		},
		{
			name: "keyer curve",
			got:  NewDefaultKeyer().CurveKey(treeHash),
			want: digest("curve", treeHash),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("key = %q, want %q", tt.got, tt.want)
			}
			_, sum, ok := strings.Cut(tt.got, ":")
			if !ok || len(sum) != 64 {
				t.Errorf("key %q should be <kind>:<64 hex chars>", tt.got)
			}
		})
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get(key) = hit %v, err %v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get(key) = %q, want %q", data, "value")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	path := c.path("key")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir removed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.CurveKey("abc"); !strings.HasPrefix(got, "curve:") {
		t.Errorf("CurveKey = %q, want curve: prefix", got)
	}
	if k.CurveKey("abc") == k.CurveKey("abd") {
		t.Error("different tree hashes should produce different curve keys")
	}

	base := SearchKeyOpts{Costs: []int{1, 2, 3}, Prizes: []int{4, 5, 6}, Objective: "minimize"}
	key := k.SearchKey("abc", base)
	if !strings.HasPrefix(key, "search:") {
		t.Errorf("SearchKey = %q, want search: prefix", key)
	}

	tests := []struct {
		name string
		opts SearchKeyOpts
		same bool
	}{
		{"reordered multisets", SearchKeyOpts{Costs: []int{3, 1, 2}, Prizes: []int{6, 4, 5}, Objective: "minimize"}, true},
		{"different costs", SearchKeyOpts{Costs: []int{1, 2, 4}, Prizes: []int{4, 5, 6}, Objective: "minimize"}, false},
		{"swapped multisets", SearchKeyOpts{Costs: []int{4, 5, 6}, Prizes: []int{1, 2, 3}, Objective: "minimize"}, false},
		{"objective", SearchKeyOpts{Costs: []int{1, 2, 3}, Prizes: []int{4, 5, 6}, Objective: "maximize"}, false},
		{"dedup order", SearchKeyOpts{Costs: []int{1, 2, 3}, Prizes: []int{4, 5, 6}, Objective: "minimize", DedupBeforeScoring: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := k.SearchKey("abc", tt.opts) == key
			if got != tt.same {
				t.Errorf("key equality = %v, want %v", got, tt.same)
			}
		})
	}

	if base.Costs[0] != 1 || base.Costs[2] != 3 {
		t.Error("SearchKey must not reorder the caller's slices")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "csmtree:v1:")

	if got, want := scoped.CurveKey("abc"), "csmtree:v1:"+inner.CurveKey("abc"); got != want {
		t.Errorf("CurveKey = %q, want %q", got, want)
	}
	opts := SearchKeyOpts{Costs: []int{1}, Prizes: []int{2}}
	if got, want := scoped.SearchKey("abc", opts), "csmtree:v1:"+inner.SearchKey("abc", opts); got != want {
		t.Errorf("SearchKey = %q, want %q", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got, want := scoped.CurveKey("h"), "prefix:"+NewDefaultKeyer().CurveKey("h"); got != want {
		t.Errorf("CurveKey with nil inner = %q, want %q", got, want)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then success: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
