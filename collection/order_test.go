package collection

import (
	"math/rand/v2"
	"testing"

	"github.com/goliatone/go-canvas/engine"
)

const key = "position"

func TestInsertKeepOrderSortsDistinctKeys(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		c := engine.NewCollection[engine.Layer]()
		for _, p := range rng.Perm(15) {
			InsertKeepOrder[engine.Layer](c, engine.NewTileLayer(nil), key, float64(p))
		}
		if !Sorted(c.Items(), key) {
			t.Fatalf("seed %d: expected sorted collection", seed)
		}
		if c.Len() != 15 {
			t.Fatalf("seed %d: expected 15 items, got %d", seed, c.Len())
		}
	}
}

func TestInsertKeepOrderPlacesNewestFirstAmongEqualKeys(t *testing.T) {
	c := engine.NewCollection[engine.Layer]()
	first := engine.NewTileLayer(nil)
	second := engine.NewTileLayer(nil)
	high := engine.NewTileLayer(nil)

	InsertKeepOrder[engine.Layer](c, high, key, 20)
	InsertKeepOrder[engine.Layer](c, first, key, 5)
	idx := InsertKeepOrder[engine.Layer](c, second, key, 5)

	if idx != 0 {
		t.Fatalf("expected equal key to be inserted before the first match, got %d", idx)
	}
	items := c.Items()
	if items[0] != second || items[1] != first || items[2] != high {
		t.Fatalf("unexpected order %v", items)
	}
	if got := Position(first, key); got != 5 {
		t.Fatalf("expected stamped position 5, got %v", got)
	}
}

func TestUnstampedItemsCountAsZero(t *testing.T) {
	c := engine.NewCollection[engine.Layer](engine.NewTileLayer(nil))
	item := engine.NewTileLayer(nil)

	if idx := InsertKeepOrder[engine.Layer](c, item, key, 0); idx != 0 {
		t.Fatalf("expected insertion before unstamped item, got %d", idx)
	}
	if idx := InsertKeepOrder[engine.Layer](c, engine.NewTileLayer(nil), key, 1); idx != 2 {
		t.Fatalf("expected append, got %d", idx)
	}
}
