package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_LowercasesInput(t *testing.T) {
	l := Default()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"electronics", "家電", true},
		{"Electronics", "家電", true},
		{"ELECTRONICS & GADGETS", "家電・スマホ・カメラ", true},
		{"Kids", "キッズ/ベビー", true},
		{"家電", "", false},
		{"spaceships", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := l.Translate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_DuplicateKeyLaterWins(t *testing.T) {
	l := New([]Entry{
		{"Home & Living", "家具・インテリア"},
		{"home & living", "インテリア・住まい・小物"},
	})

	got, ok := l.Translate("home & living")
	require.True(t, ok)
	assert.Equal(t, "インテリア・住まい・小物", got)

	dups := l.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, "home & living", dups[0].English)
	assert.Equal(t, "家具・インテリア", dups[0].Previous)

	assert.Equal(t, []string{"home & living"}, l.EnglishNames())
	assert.Equal(t, []string{"家具・インテリア", "インテリア・住まい・小物"}, l.JapaneseNames())
}

func TestDefault_FlagsUpstreamDuplicate(t *testing.T) {
	l := Default()
	require.Len(t, l.Duplicates(), 1)
	assert.Equal(t, "home & living", l.Duplicates()[0].English)
}

func TestNew_ManyToOne(t *testing.T) {
	l := Default()

	for _, en := range []string{"baby & kids", "kids", "baby"} {
		got, ok := l.Translate(en)
		require.True(t, ok)
		assert.Equal(t, "キッズ/ベビー", got)
	}

	count := 0
	for _, ja := range l.JapaneseNames() {
		if ja == "キッズ/ベビー" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
