package scrape

import (
	"net"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https allowed", "https://acme.com/terms", false},
		{"http allowed", "http://acme.com", false},
		{"ftp rejected", "ftp://acme.com/file", true},
		{"file rejected", "file:///etc/passwd", true},
		{"localhost rejected", "https://localhost:8080/", true},
		{"loopback literal rejected", "http://127.0.0.1/", true},
		{"ipv6 loopback rejected", "http://[::1]/", true},
		{"local domain rejected", "https://db.internal/", true},
		{"mdns domain rejected", "https://printer.local/", true},
		{"private ip rejected", "https://10.0.0.5/terms", true},
		{"cgnat ip rejected", "https://100.64.1.1/", true},
		{"no host rejected", "https:///terms", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateURL(tc.url)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tc.url, err, tc.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"8.8.8.8", false},
		{"93.184.216.34", false},
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.0.1", true},
		{"100.64.0.1", true},
		{"100.127.255.255", true},
		{"100.128.0.0", false},
		{"::1", true},
		{"fe80::1", true},
		{"2001:4860:4860::8888", false},
	}
	for _, tc := range tests {
		ip := net.ParseIP(tc.ip)
		if ip == nil {
			t.Fatalf("bad test IP %q", tc.ip)
		}
		if got := IsPrivateIP(ip); got != tc.want {
			t.Errorf("IsPrivateIP(%s) = %v, want %v", tc.ip, got, tc.want)
		}
	}
}
