package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/appetiteclub/pos/services/pos/internal/order"
)

// "<name> x<qty>" with an optional trailing "(price)" note.
var itemPattern = regexp.MustCompile(`^(.+?)\s+[xX](\d+)(?:\s*\([^()]*\))?$`)

// Items decomposes a backend item string such as "Biryani x2, Coke x1".
// Every non-empty segment yields one entry, in order; segments without a
// quantity marker keep their text with quantity 1. A string with no
// non-empty segment yields a single entry holding the raw input.
func Items(s string) []order.ItemCount {
	out := make([]order.ItemCount, 0)
	for _, segment := range strings.Split(s, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		out = append(out, item(segment))
	}
	if len(out) == 0 {
		return []order.ItemCount{{Name: s, Qty: 1}}
	}
	return out
}

func item(segment string) order.ItemCount {
	m := itemPattern.FindStringSubmatch(segment)
	if m == nil {
		return order.ItemCount{Name: segment, Qty: 1}
	}
	qty, err := strconv.Atoi(m[2])
	if err != nil {
		return order.ItemCount{Name: segment, Qty: 1}
	}
	return order.ItemCount{Name: strings.TrimSpace(m[1]), Qty: qty}
}
