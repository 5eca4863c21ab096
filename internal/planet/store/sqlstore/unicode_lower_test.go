package sqlstore

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowerValue(t *testing.T) {
	tests := []struct {
		name string
		in   driver.Value
		want driver.Value
	}{
		{name: "text", in: "ÉRIADU", want: "ériadu"},
		{name: "blob", in: []byte("ÖDLAND"), want: "ödland"},
		{name: "null", in: nil, want: nil},
		{name: "integer passes through", in: int64(7), want: int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lowerValue(nil, []driver.Value{tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
