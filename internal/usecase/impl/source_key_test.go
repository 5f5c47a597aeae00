package impl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceCacheKey(t *testing.T) {
	t.Parallel()

	t.Run("lowercases and trims", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "г москва, ул тверская, 1", sourceCacheKey("  г Москва, ул Тверская, 1  ", nil))
	})

	t.Run("no helpers means no hash suffix", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, sourceCacheKey("query", nil), sourceCacheKey("query", map[string]string{}))
		assert.NotContains(t, sourceCacheKey("query", nil), "|h:")
	})

	t.Run("helpers change identity", func(t *testing.T) {
		t.Parallel()

		plain := sourceCacheKey("ул Ленина 1", nil)
		withHelper := sourceCacheKey("ул Ленина 1", map[string]string{"tin": "7707083893"})

		assert.NotEqual(t, plain, withHelper)
		assert.Contains(t, withHelper, "|h:")
	})

	t.Run("helper order does not matter", func(t *testing.T) {
		t.Parallel()

		a := sourceCacheKey("q", map[string]string{"tin": "1", "kpp": "2"})
		b := sourceCacheKey("q", map[string]string{"kpp": "2", "tin": "1"})

		assert.Equal(t, a, b)
	})

	t.Run("different helper values diverge", func(t *testing.T) {
		t.Parallel()

		a := sourceCacheKey("q", map[string]string{"tin": "1"})
		b := sourceCacheKey("q", map[string]string{"tin": "2"})

		assert.NotEqual(t, a, b)
	})
}

func TestHasIdentifierShape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query string
		want  bool
	}{
		{"key:0b0c3bbb-2b3a-4b46-9466-6e1e46e6a041", true},
		{"fiasId:0a1b2c3d-0000-4000-8000-000000000001", true},
		{"googlePlaceId:ChIJybDUc_xKtUYRTM9XV8zWRD0", true},
		{"injectionId:0b0c3bbb-2b3a-4b46-9466-6e1e46e6a041", true},
		{"г Москва, ул Тверская, 1", false},
		{"keyhole street 5", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, hasIdentifierShape(tc.query), tc.query)
	}
}
