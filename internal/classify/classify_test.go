package classify

import "testing"

func TestIsPrivate(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"ten block", "10.0.0.1", true},
		{"ten block high", "10.255.255.255", true},
		{"one seventy two low edge", "172.16.5.5", true},
		{"one seventy two high edge", "172.31.255.1", true},
		{"one seventy two below range", "172.15.0.1", false},
		{"one seventy two above range", "172.32.0.1", false},
		{"broad one ninety two", "192.0.2.1", true},
		{"one ninety two one sixty eight", "192.168.1.1", true},
		{"public", "8.8.8.8", false},
		{"public cloudflare", "1.1.1.1", false},
		{"ipv6 not dotted quad", "2001:db8::1", false},
		{"too few octets", "10.0.0", false},
		{"too many octets", "10.0.0.0.1", false},
		{"empty", "", false},
		{"one seventy two garbage second octet", "172.abc.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPrivate(tt.address); got != tt.want {
				t.Errorf("IsPrivate(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}
