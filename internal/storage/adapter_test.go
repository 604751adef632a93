package storage

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

func newTestAdapter(t *testing.T, quota int64) (*Adapter, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV(quota)
	adapter := NewAdapter(kv, zap.NewNop())
	t.Cleanup(func() { adapter.Close() })
	return adapter, kv
}

func TestAdapterRoundTrip(t *testing.T) {
	adapter, _ := newTestAdapter(t, 0)
	ctx := context.Background()

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := adapter.Set(ctx, "rec", record{Name: "a", Count: 3}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got record
	if !adapter.Get(ctx, "rec", &got) {
		t.Fatal("expected value for rec")
	}
	if got.Name != "a" || got.Count != 3 {
		t.Errorf("got %+v, want {a 3}", got)
	}
}

func TestAdapterGetMissingKeepsDefault(t *testing.T) {
	adapter, _ := newTestAdapter(t, 0)

	got := "default"
	if adapter.Get(context.Background(), "absent", &got) {
		t.Error("expected false for absent key")
	}
	if got != "default" {
		t.Errorf("default overwritten: %q", got)
	}
}

func TestAdapterGetCorruptContent(t *testing.T) {
	adapter, kv := newTestAdapter(t, 0)
	ctx := context.Background()

	for name, raw := range map[string]string{
		"malformed": "{not json",
		"null":      "null",
		"undefined": "undefined",
		"empty":     "",
	} {
		if err := kv.Set(ctx, name, []byte(raw)); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
		var out map[string]any
		if adapter.Get(ctx, name, &out) {
			t.Errorf("%s content read as valid", name)
		}
	}
}

func TestAdapterSetQuotaClassified(t *testing.T) {
	adapter, _ := newTestAdapter(t, 8)
	ctx := context.Background()

	err := adapter.Set(ctx, "big", "a value far larger than eight bytes")
	if err == nil {
		t.Fatal("expected quota failure")
	}
	if failure := outcome.As(err); failure.Kind != outcome.KindQuota {
		t.Errorf("kind = %s, want %s", failure.Kind, outcome.KindQuota)
	}
}

type denyingKV struct{}

func (denyingKV) Get(context.Context, string) ([]byte, error)  { return nil, ErrAccessDenied }
func (denyingKV) Set(context.Context, string, []byte) error    { return ErrAccessDenied }
func (denyingKV) Delete(context.Context, string) error         { return ErrAccessDenied }
func (denyingKV) Clear(context.Context) error                  { return ErrAccessDenied }
func (denyingKV) Keys(context.Context) ([]string, error)       { return nil, ErrAccessDenied }
func (denyingKV) Close() error                                 { return nil }

func TestAdapterAccessDeniedClassified(t *testing.T) {
	adapter := NewAdapter(denyingKV{}, zap.NewNop())
	ctx := context.Background()

	if adapter.Get(ctx, "k", new(string)) {
		t.Error("get should report nothing on denied access")
	}
	if failure := outcome.As(adapter.Set(ctx, "k", "v")); failure.Kind != outcome.KindAccess {
		t.Errorf("set kind = %s, want %s", failure.Kind, outcome.KindAccess)
	}
	if failure := outcome.As(adapter.Clear(ctx)); failure.Kind != outcome.KindAccess {
		t.Errorf("clear kind = %s, want %s", failure.Kind, outcome.KindAccess)
	}
	if keys := adapter.Keys(ctx); len(keys) != 0 {
		t.Errorf("keys = %v, want empty", keys)
	}
}

func TestAdapterRemoveAbsentSucceeds(t *testing.T) {
	adapter, _ := newTestAdapter(t, 0)

	if err := adapter.Remove(context.Background(), "never-set"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestAdapterKeysAndClear(t *testing.T) {
	adapter, _ := newTestAdapter(t, 0)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := adapter.Set(ctx, key, 1); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if keys := adapter.Keys(ctx); len(keys) != 3 {
		t.Fatalf("keys = %v, want 3 entries", keys)
	}

	if err := adapter.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if keys := adapter.Keys(ctx); len(keys) != 0 {
		t.Errorf("keys after clear = %v, want none", keys)
	}
}

func TestMemoryQuotaFreedByDelete(t *testing.T) {
	kv := NewMemoryKV(10)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", []byte("0123456789")); err != nil {
		t.Fatalf("fill to quota: %v", err)
	}
	if err := kv.Set(ctx, "k2", []byte("x")); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Set(ctx, "k2", []byte("x")); err != nil {
		t.Errorf("set after free: %v", err)
	}
}
