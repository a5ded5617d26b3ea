package lib

import (
	"fmt"
	"strings"
)

/*
	A TypeValue is one dynamic symbol property.
*/
type TypeValue struct {
	Type  string
	Value string
}

/*
	Render one property fragment per pair, assigning ids sequentially from
	base in input order. Empty values are kept as empty strings: tooling
	downstream keys on a field being defined, not on its content.
*/
func TypeValueProperties(base int, pairs []TypeValue) string {
	fragments := make([]string, 0, len(pairs))
	for i, pair := range pairs {
		fragments = append(fragments, fmt.Sprintf(
			"(property %q %q (id %d) (at 0 0 0)\n"+
				"      (effects (font (size 1.27 1.27)) hide)\n"+
				"    )",
			pair.Type, pair.Value, base+i,
		))
	}

	return strings.Join(fragments, "\n    ")
}
