package xhttp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		path string
		skip bool
	}{
		{"/metrics", true},
		{"/health", true},
		{"/api/v1/health", true},
		{"/api/v1/invoices", false},
		{"/api/v1/invoices/abc/edit", false},
		{"/healthz", false},
		{"/api/v1/stealth-health", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.skip, shouldSkip(tt.path))
		})
	}
}
