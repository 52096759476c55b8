package validation

import (
	"net"
	"testing"
)

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"12345678", true},
		{"123", false},
		{"123456789", false},
		{"12ab", false},
		{"", false},
		{" 1234", false},
	}
	for _, tt := range tests {
		if got := ValidatePIN(tt.pin); got != tt.want {
			t.Errorf("ValidatePIN(%q) = %v, want %v", tt.pin, got, tt.want)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"https", "https://example.com/x", true},
		{"http", "http://example.com", true},
		{"javascript scheme", "javascript:alert(1)", false},
		{"data scheme", "data:text/html,hi", false},
		{"no host", "https://", false},
		{"empty", "", false},
		{"relative", "/just/a/path", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := ValidateURL(tt.url); got != tt.want {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"192.168.0.1", true},
		{"172.16.5.5", true},
		{"169.254.1.1", true},
		{"0.0.0.0", true},
		{"::1", true},
		{"8.8.8.8", false},
		{"93.184.216.34", false},
		{"2001:4860:4860::8888", false},
	}
	for _, tt := range tests {
		if got := IsPrivateIP(net.ParseIP(tt.ip)); got != tt.want {
			t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
	if IsPrivateIP(nil) {
		t.Error("IsPrivateIP(nil) = true, want false")
	}
}

func TestIsSafeRemoteHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"8.8.8.8", true},
		{"127.0.0.1", false},
		{"10.0.0.1", false},
		{"::1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSafeRemoteHost(tt.host); got != tt.want {
			t.Errorf("IsSafeRemoteHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
