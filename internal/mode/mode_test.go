package mode

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		def   Mode
		query string
		want  Mode
	}{
		{"public default ignores private override", Public, "mode=private", Public},
		{"public default without query", Public, "", Public},
		{"private default narrowed to public", Private, "mode=public", Public},
		{"private default without query", Private, "", Private},
		{"private default explicit private", Private, "mode=private", Private},
		{"private default with garbage", Private, "mode=admin", Private},
		{"unknown default falls back to public", Mode("staff"), "mode=private", Public},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, Resolve(tt.def, q))
		})
	}
}

func TestResolveDefault(t *testing.T) {
	orig := Default
	t.Cleanup(func() { Default = orig })

	Default = "private"
	assert.Equal(t, Private, ResolveDefault(url.Values{}))
	assert.Equal(t, Public, ResolveDefault(url.Values{"mode": {"public"}}))

	Default = "nonsense"
	assert.Equal(t, Public, ResolveDefault(url.Values{"mode": {"private"}}))
}

func TestPublicationReadyOnly(t *testing.T) {
	assert.True(t, Public.PublicationReadyOnly())
	assert.False(t, Private.PublicationReadyOnly())
}
