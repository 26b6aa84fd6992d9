package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetExpiresWithin(t *testing.T) {
	now := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt int64
		want      bool
	}{
		{name: "expires in an hour", expiresAt: now.Add(time.Hour).UnixMilli(), want: false},
		{name: "expires exactly at window edge", expiresAt: now.Add(RefreshWindow).UnixMilli(), want: false},
		{name: "expires just inside window", expiresAt: now.Add(RefreshWindow - time.Millisecond).UnixMilli(), want: true},
		{name: "already expired", expiresAt: now.Add(-time.Minute).UnixMilli(), want: true},
		{name: "zero value", expiresAt: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &TokenSet{ExpiresAt: tt.expiresAt}

			assert.Equal(t, tt.want, tokens.ExpiresWithin(now, RefreshWindow))
		})
	}
}
