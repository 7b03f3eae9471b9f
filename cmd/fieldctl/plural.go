package main

import (
	"fmt"

	"github.com/jinzhu/inflection"
)

// countOf renders n with word pluralized to match, e.g. "1 field", "2 fields".
func countOf(n int, word string) string {
	if n != 1 {
		word = inflection.Plural(word)
	}
	return fmt.Sprintf("%d %s", n, word)
}
