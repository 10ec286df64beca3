// Package collection keeps observable containers ordered by a numeric key
// stamped onto their items.
package collection

// Stampable is an item that can carry the order key as a property.
type Stampable interface {
	Get(key string) any
	Set(key string, value any)
}

// Ordered is a container supporting indexed reads and insertion.
type Ordered[T Stampable] interface {
	Items() []T
	InsertAt(index int, item T)
}

// InsertKeepOrder stamps position onto item under orderKey and inserts it
// before the first element whose stamped value is greater than or equal to
// position, or at the end. Elements without a stamp count as 0. It returns the
// index used.
//
// Among equal positions the newest item goes first: inserting A then B at the
// same position yields [B, A]. Distinct positions always end up ascending.
func InsertKeepOrder[T Stampable](c Ordered[T], item T, orderKey string, position float64) int {
	item.Set(orderKey, position)
	items := c.Items()
	index := len(items)
	for i, existing := range items {
		if Position(existing, orderKey) >= position {
			index = i
			break
		}
	}
	c.InsertAt(index, item)
	return index
}

// Position returns the value stamped under orderKey, or 0.
func Position(item Stampable, orderKey string) float64 {
	switch v := item.Get(orderKey).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	}
	return 0
}

// Sorted reports whether the stamped values of items never decrease.
func Sorted[T Stampable](items []T, orderKey string) bool {
	for i := 1; i < len(items); i++ {
		if Position(items[i-1], orderKey) > Position(items[i], orderKey) {
			return false
		}
	}
	return true
}
