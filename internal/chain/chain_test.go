package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

func TestIDString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "kroma", Kroma.String())
	assert.Equal(t, "ethereum", Ethereum.String())
	assert.Equal(t, "999", ID(999).String())
}

func TestNativeCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   ID
		want string
	}{
		{Ethereum, "ETH"},
		{Kroma, "ETH"},
		{Polygon, "MATIC"},
		{BNB, "BNB"},
		{Celo, "CELO"},
		{ID(123456), "ETH"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.id.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.id.NativeCurrency())
		})
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	t.Run("parses names case-insensitively", func(t *testing.T) {
		t.Parallel()
		id, err := ParseID("  Kroma ")
		require.NoError(t, err)
		assert.Equal(t, Kroma, id)
	})

	t.Run("parses numeric ids", func(t *testing.T) {
		t.Parallel()
		id, err := ParseID("2358")
		require.NoError(t, err)
		assert.Equal(t, KromaSepolia, id)

		id, err = ParseID("31337")
		require.NoError(t, err)
		assert.Equal(t, ID(31337), id)
		assert.False(t, id.IsKnown())
	})

	t.Run("rejects zero and empty", func(t *testing.T) {
		t.Parallel()
		_, err := ParseID("0")
		require.ErrorIs(t, err, logoerr.ErrInvalidChainID)

		_, err = ParseID("")
		require.ErrorIs(t, err, logoerr.ErrInvalidChainID)
	})

	t.Run("suggests close names", func(t *testing.T) {
		t.Parallel()
		_, err := ParseID("kroam")
		require.ErrorIs(t, err, logoerr.ErrUnsupportedChain)

		var le *logoerr.LogoError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "did you mean 'kroma'?", le.Suggestion)
	})

	t.Run("no suggestion for distant names", func(t *testing.T) {
		t.Parallel()
		_, err := ParseID("solana-mainnet-beta")
		require.ErrorIs(t, err, logoerr.ErrUnsupportedChain)

		var le *logoerr.LogoError
		require.ErrorAs(t, err, &le)
		assert.Empty(t, le.Suggestion)
	})
}

func TestAllChainsSorted(t *testing.T) {
	t.Parallel()

	ids := AllChains()
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}
