package codegen

import (
	"strconv"
	"strings"
)

var defaultTypeSizes = map[string]int{
	"bool":          1,
	"byte":          1,
	"char":          1,
	"long":          8,
	"ulong":         8,
	"unsigned long": 8,
	"unsigned-long": 8,
}

// DefaultTypeSize is the width of any type not listed in the size table.
const DefaultTypeSize = 4

// TypeSize returns the slot width for a textual type name. Matching is
// case-insensitive; overrides win over the built-in table.
func TypeSize(typ string, overrides map[string]int) int {
	key := strings.ToLower(strings.TrimSpace(typ))

	for name, size := range overrides {
		if strings.ToLower(name) == key {
			return size
		}
	}

	if size, ok := defaultTypeSizes[key]; ok {
		return size
	}

	return DefaultTypeSize
}

// literalValue interprets literal text. isBool is set for true and false.
// ok is false for strings, characters and anything else that does not
// parse as an integer.
func literalValue(text string) (value int32, isBool bool, ok bool) {
	switch text {
	case "true":
		return 1, true, true
	case "false":
		return 0, true, true
	}

	if text == "" || strings.HasPrefix(text, "\"") || strings.HasPrefix(text, "'") {
		return 0, false, false
	}

	digits, base := text, 10
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "0x"):
		digits, base = text[2:], 16
	case strings.HasPrefix(lower, "0b"):
		digits, base = text[2:], 2
	}

	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, false, false
	}

	return int32(v), false, true
}
