package cache

import (
	"fmt"
	"strings"
)

// key joins a namespace and parts into a Redis key such as "users:id:42".
func key(namespace string, parts ...any) string {
	var b strings.Builder
	b.WriteString(safe(namespace))
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(safe(fmt.Sprint(p)))
	}
	return b.String()
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
