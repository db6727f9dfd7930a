package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, "CID000367", Encode(New(367)))
	assert.Equal(t, "CID000001", Encode(New(1)))
	assert.Equal(t, "CID999999", Encode(New(999999)))
	assert.Equal(t, "CID1234567", Encode(New(1234567)), "ids wider than six digits are not truncated")
	assert.Equal(t, "", Encode(None))
	assert.Equal(t, "", Encode(New(0)))
	assert.Equal(t, "", Encode(New(-4)))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		in   string
		want CellLineID
	}{
		{"CID000367", New(367)},
		{"367", New(367)},
		{"000828", New(828)},
		{"OPCT00000000828", New(828)},
		{" CID000012 ", New(12)},
		{"CID000367?mode=private", New(367)},
		{"", None},
		{"undefined", None},
		{"CID", None},
		{"CIDabc", None},
		{"-5", None},
		{"0", None},
		{"CID000000", None},
		{"99999999999999999999999", None},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.in))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for n := 1; n <= 999999; n++ {
		got, ok := Decode(Encode(New(n))).Int()
		if !ok || got != n {
			t.Fatalf("round trip of %d gave %d (ok=%v)", n, got, ok)
		}
	}
}

func TestNone(t *testing.T) {
	assert.True(t, None.IsNone())
	assert.True(t, New(0).IsNone())
	assert.False(t, New(3).IsNone())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "CID000003", New(3).String())

	_, ok := None.Int()
	assert.False(t, ok)
}
