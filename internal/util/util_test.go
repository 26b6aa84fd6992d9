package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		name      string
		fullName  string
		wantFirst string
		wantLast  string
	}{
		{name: "two parts", fullName: "Budi Santoso", wantFirst: "Budi", wantLast: "Santoso"},
		{name: "single part", fullName: "Budi", wantFirst: "Budi", wantLast: ""},
		{name: "empty", fullName: "", wantFirst: "", wantLast: ""},
		{name: "blank", fullName: "   ", wantFirst: "", wantLast: ""},
		{name: "three parts", fullName: "Siti Nur Aisyah", wantFirst: "Siti", wantLast: "Nur Aisyah"},
		{name: "extra spaces collapse", fullName: "  Budi   Santoso  ", wantFirst: "Budi", wantLast: "Santoso"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitFullName(tt.fullName)

			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
