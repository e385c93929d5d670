package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vc7day/internal/models"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		raw  string
		want []int
	}{
		{"", []int{}},
		{"1,2,3", []int{1, 2, 3}},
		{" 4 , 4,  5", []int{4, 4, 5}},
		{"1,abc,2,,-3,4.5,+6,7", []int{1, 2, 7}},
		{"None", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseIDList(tt.raw)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIDListStrict(t *testing.T) {
	got, err := ParseIDListStrict(" 3, ,1 ")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, got)

	_, err = ParseIDListStrict("1,abc")
	assert.True(t, models.HasCode(err, models.CodeValidation))

	_, err = ParseIDListStrict("-2")
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestParsePlaylistRef(t *testing.T) {
	for _, raw := range []string{"", "None", " None ", "null"} {
		ref, err := ParsePlaylistRef(raw)
		require.NoError(t, err)
		assert.Nil(t, ref, "value %q", raw)
	}

	ref, err := ParsePlaylistRef("2")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, 2, *ref)

	_, err = ParsePlaylistRef("abc")
	assert.True(t, models.HasCode(err, models.CodeValidation))
}
