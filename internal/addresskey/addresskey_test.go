package addresskey

import (
	"testing"

	"addrsvc/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_UsesStructuredComponents(t *testing.T) {
	n := &entity.NormalizedResult{
		Value: "г Москва, ул Тверская, д 1",
		Data: entity.AddressData{
			Region: "Москва",
			City:   "Москва",
			Street: "Тверская",
			House:  "1",
		},
	}

	assert.Equal(t, "moskva-moskva-tverskaia-1", Generate(n))
}

func TestGenerate_Deterministic(t *testing.T) {
	n := &entity.NormalizedResult{
		Value: "55 Main St, Springfield",
		Data: entity.AddressData{
			City:   "Springfield",
			Street: "Main St",
			House:  "55",
		},
	}

	first := Generate(n)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(n))
	}
}

func TestGenerate_SameKeyAcrossProviders(t *testing.T) {
	// Two providers describing the same building with different display
	// values and typed forms must converge on one key.
	dadataShaped := &entity.NormalizedResult{
		Value: "г Москва, ул Тверская, д 1",
		Data: entity.AddressData{
			Region:         "Москва",
			RegionWithType: "г Москва",
			City:           "Москва",
			Street:         "Тверская",
			StreetWithType: "ул Тверская",
			House:          "1",
			HouseType:      "д",
		},
	}
	googleShaped := &entity.NormalizedResult{
		Value: "Tverskaya Ulitsa, 1, Moskva, Russia",
		Data: entity.AddressData{
			Region: "Москва",
			City:   "Москва",
			Street: "Тверская",
			House:  "1",
		},
	}

	assert.Equal(t, Generate(dadataShaped), Generate(googleShaped))
}

func TestGenerate_DegradesToCoarserKey(t *testing.T) {
	cityOnly := &entity.NormalizedResult{
		Value: "Springfield",
		Data:  entity.AddressData{City: "Springfield"},
	}

	assert.Equal(t, "springfield", Generate(cityOnly))
}

func TestGenerate_FallsBackToValue(t *testing.T) {
	n := &entity.NormalizedResult{Value: "55 Main Street, Springfield"}

	assert.Equal(t, "55-main-street-springfield", Generate(n))
}

func TestGenerate_HouseWithBlock(t *testing.T) {
	n := &entity.NormalizedResult{
		Data: entity.AddressData{
			City:   "Москва",
			Street: "Ленина",
			House:  "5",
			Block:  "2",
		},
	}

	assert.Equal(t, "moskva-lenina-5-2", Generate(n))
}

func TestGenerate_NilAndEmpty(t *testing.T) {
	assert.Equal(t, "", Generate(nil))
	assert.Equal(t, "", Generate(&entity.NormalizedResult{}))
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"55 Main St.", "55-main-st"},
		{"  -- Main -- St --  ", "main-st"},
		{"Čaršijska čikma", "carsijska-cikma"},
		{"г Санкт-Петербург", "g-sankt-peterburg"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}
