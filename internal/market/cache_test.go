package market

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	cache := NewCache(time.Minute)

	cache.SetAll([]Record{
		{ID: "m1", Question: "Will it rain?", Probability: 0.4},
		{ID: "m2", Question: "Will it snow?", Probability: 0.1},
	})

	r, ok := cache.Get("m1")
	if !ok || r.Probability != 0.4 {
		t.Errorf("Get(m1) = %+v, %v", r, ok)
	}
	if _, ok := cache.Get("missing"); ok {
		t.Error("Get(missing) should report a miss")
	}
	if got := len(cache.All()); got != 2 {
		t.Errorf("All() returned %d records, want 2", got)
	}
}

func TestCache_Expiry(t *testing.T) {
	cache := NewCache(-time.Second) // everything is already expired

	cache.SetAll([]Record{{ID: "m1"}})

	if _, ok := cache.Get("m1"); ok {
		t.Error("expired entry should miss")
	}
	if got := len(cache.All()); got != 0 {
		t.Errorf("All() returned %d expired records", got)
	}
}

func TestCache_Overwrite(t *testing.T) {
	cache := NewCache(time.Minute)

	cache.SetAll([]Record{{ID: "m1", Probability: 0.4}})
	cache.SetAll([]Record{{ID: "m1", Probability: 0.6}})

	r, ok := cache.Get("m1")
	if !ok || r.Probability != 0.6 {
		t.Errorf("Get(m1) after overwrite = %+v, %v", r, ok)
	}
}
