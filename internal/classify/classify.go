// Package classify decides whether an address is private/non-routable
// without touching any database.
package classify

import (
	"strconv"
	"strings"
)

// IsPrivate reports whether the address falls in a private IPv4 block.
//
// The check is purely string-based: the address is split on "." and must
// have exactly four parts, so IPv6 and otherwise malformed inputs are
// reported as not private (a known limitation, they are validated later
// in the pipeline). An address is private when the first octet is "10",
// when it is "172" with a second octet in [16, 31], or when it is "192".
// The bare-192 rule is broader than 192.168.0.0/16; it is preserved
// deliberately to match the established behavior of this tool.
func IsPrivate(address string) bool {
	parts := strings.Split(address, ".")
	if len(parts) != 4 {
		return false
	}
	switch parts[0] {
	case "10", "192":
		return true
	case "172":
		second, err := strconv.Atoi(parts[1])
		if err != nil {
			return false
		}
		return second >= 16 && second <= 31
	}
	return false
}
