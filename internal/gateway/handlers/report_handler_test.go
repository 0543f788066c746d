package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		// httptest's default RemoteAddr; every direct connection looks like this
		{"Direct connection host:port", "192.0.2.1:1234", "192.0.2.1"},
		{"Bare IPv4 after RealIP rewrite", "203.0.113.9", "203.0.113.9"},
		{"Bracketed IPv6 with port", "[2001:0db8:85a3:0000:0000:8a2e:0370:7334]:443", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"Compressed IPv6 is dropped", "[::1]:1234", ""},
		{"Unix socket address is dropped", "@", ""},
		{"Garbage is dropped", "not-an-address", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
			r.RemoteAddr = tc.remoteAddr
			if got := clientIP(r); got != tc.want {
				t.Errorf("clientIP(%q) = %q, want %q", tc.remoteAddr, got, tc.want)
			}
		})
	}
}

// A submission built from any RemoteAddr must never fail reporter-IP
// validation; the field is optional and is dropped rather than stored bad.
func TestClientIP_NeverBlocksSubmission(t *testing.T) {
	addrs := []string{"192.0.2.1:1234", "[::1]:1234", "203.0.113.9", "@"}

	for _, addr := range addrs {
		r := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
		r.RemoteAddr = addr

		report := &shared.Report{
			ReporterID:  "student-001",
			TargetType:  shared.TargetMaterial,
			TargetID:    "mat-001",
			Reason:      shared.ReasonSpam,
			Category:    shared.CategoryContent,
			Severity:    shared.SeverityMedium,
			Description: "This material is repeated spam content.",
			Metadata:    shared.ReportMetadata{ReporterIP: clientIP(r)},
		}
		if err := shared.ValidateReport(report); err != nil {
			t.Errorf("RemoteAddr %q: submission rejected: %v", addr, err)
		}
	}
}
