package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIDRSubnet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		prefix   string
		newbits  int
		netnum   int
		expected string
		wantErr  bool
	}{
		{
			name:     "first /20 inside /16",
			prefix:   "10.42.0.0/16",
			newbits:  4,
			netnum:   0,
			expected: "10.42.0.0/20",
		},
		{
			name:     "second /20 inside /16",
			prefix:   "10.42.0.0/16",
			newbits:  4,
			netnum:   1,
			expected: "10.42.16.0/20",
		},
		{
			name:     "last /20 inside /16",
			prefix:   "10.42.0.0/16",
			newbits:  4,
			netnum:   15,
			expected: "10.42.240.0/20",
		},
		{
			name:     "/24 inside /16",
			prefix:   "10.0.0.0/16",
			newbits:  8,
			netnum:   3,
			expected: "10.0.3.0/24",
		},
		{
			name:    "netnum exceeds range",
			prefix:  "10.42.0.0/16",
			newbits: 4,
			netnum:  16,
			wantErr: true,
		},
		{
			name:    "extension past /32",
			prefix:  "10.0.0.0/30",
			newbits: 4,
			netnum:  0,
			wantErr: true,
		},
		{
			name:    "invalid prefix",
			prefix:  "not-a-cidr",
			newbits: 4,
			netnum:  0,
			wantErr: true,
		},
		{
			name:    "IPv6 rejected",
			prefix:  "2001:db8::/32",
			newbits: 4,
			netnum:  0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CIDRSubnet(tt.prefix, tt.newbits, tt.netnum)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
