package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9:00", "09:00:00"},
		{"09:00", "09:00:00"},
		{"09:00:00", "09:00:00"},
		{"23:59", "23:59:00"},
		{"10:30:15", "10:30:15"},
		{" 10:00 ", "10:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeTime(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeTime_Invalid(t *testing.T) {
	for _, in := range []string{"", "10", "25:00", "10:61", "morning", "10:0", "10:00:00:00", "1o:00"} {
		t.Run(in, func(t *testing.T) {
			_, err := NormalizeTime(in)
			assert.Error(t, err)
		})
	}
}

func TestTimeKey(t *testing.T) {
	assert.Equal(t, "09:00", TimeKey("09:00:00"))
	assert.Equal(t, "09:00", TimeKey("09:00"))
	assert.Equal(t, "09:0", TimeKey("09:0"))
}
