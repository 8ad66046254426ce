package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance_Cycle(t *testing.T) {
	assert.Equal(t, StatusSoldUnpaid, StatusUnsold.Advance())
	assert.Equal(t, StatusSoldPaid, StatusSoldUnpaid.Advance())
	assert.Equal(t, StatusFinished, StatusSoldPaid.Advance())
	assert.Equal(t, StatusUnsold, StatusFinished.Advance())
}

func TestAdvance_FourApplicationsAreIdentity(t *testing.T) {
	for _, s := range []Status{StatusUnsold, StatusSoldUnpaid, StatusSoldPaid, StatusFinished} {
		got := s
		for i := 0; i < 4; i++ {
			got = got.Advance()
		}
		assert.Equal(t, s, got, "advance^4 of %s", s)
	}
}

func TestFlags_RoundTrip(t *testing.T) {
	for _, s := range []Status{StatusUnsold, StatusSoldUnpaid, StatusSoldPaid, StatusFinished} {
		sold, paid, finished := s.Flags()
		assert.Equal(t, s, StatusFromFlags(sold, paid, finished))
	}
}

func TestStatusFromFlags_FinishedDominatesLegacyCombos(t *testing.T) {
	tests := []struct {
		name                 string
		sold, paid, finished bool
		want                 Status
	}{
		{"finished without sold", false, false, true, StatusFinished},
		{"finished without paid", true, false, true, StatusFinished},
		{"paid without sold", false, true, false, StatusUnsold},
		{"regular sold", true, false, false, StatusSoldUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromFlags(tt.sold, tt.paid, tt.finished))
		})
	}
}

func TestParseTab(t *testing.T) {
	for _, v := range []string{"", "all", "unsold", "sold_unpaid", "sold_paid", "finished"} {
		_, err := ParseTab(v)
		require.NoError(t, err, "tab %q", v)
	}

	_, err := ParseTab("archived")
	require.Error(t, err)
}

func TestTabMatches(t *testing.T) {
	assert.True(t, TabAll.Matches(StatusFinished))
	assert.True(t, TabSoldPaid.Matches(StatusSoldPaid))
	assert.False(t, TabSoldPaid.Matches(StatusSoldUnpaid))
	assert.False(t, TabUnsold.Matches(StatusFinished))
}

func TestFieldEditable(t *testing.T) {
	assert.True(t, FieldRemark.Editable())
	assert.True(t, FieldImage2.Editable())
	assert.False(t, FieldDisplayID.Editable())
	assert.False(t, Field("title").Editable())
	assert.False(t, Field("source_url").Editable())
}
