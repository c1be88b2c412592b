package domain

import (
	"math/rand"
	"strconv"
)

// RandomContactCount returns a display-formatted count between 10,000 and
// 500,000, the placeholder the product shows next to a segment.
func RandomContactCount() string {
	return FormatContactCount(rand.Intn(490000) + 10000)
}

// SmallContactCount returns a bare 0-999 count, the persona create default.
func SmallContactCount() string {
	return strconv.Itoa(rand.Intn(1000))
}

// FormatContactCount renders n with thousands separators.
func FormatContactCount(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	b := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			b = append(b, ',')
		}
		b = append(b, s[i])
	}
	return string(b)
}
