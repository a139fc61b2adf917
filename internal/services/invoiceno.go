package services

import (
	"fmt"
	"strconv"
	"strings"
)

const seedWidth = 4

// NextInvoiceNumber derives the next sequential number from the last issued
// one. Pure: same inputs, same output. The caller must pass the latest number
// by creation time (descending), not by lexical order — numbering restarts
// are possible across prefix changes and are not stitched together here.
//
// A missing or malformed last number falls back to the seed "<prefix>-0001"
// instead of failing.
func NextInvoiceNumber(last, prefix string) string {
	seed := fmt.Sprintf("%s-%0*d", prefix, seedWidth, 1)
	rest, ok := strings.CutPrefix(last, prefix+"-")
	if !ok || rest == "" {
		return seed
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return seed
	}
	width := len(rest)
	return fmt.Sprintf("%s-%0*d", prefix, width, n+1)
}
