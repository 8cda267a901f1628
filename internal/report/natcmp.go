package report

import "github.com/maruel/natural"

// natCompare compares two strings treating runs of digits as numbers, so
// "match=9" sorts before "match=10".
func natCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	default:
		return 0
	}
}
