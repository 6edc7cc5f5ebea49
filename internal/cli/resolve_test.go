package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/config"
	"github.com/mrz1836/logosrc/internal/output"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

const (
	daiAddress  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	placeholder = "/static/images/kroma-tnbgr.png"
)

const daiListJSON = `{
  "name": "Test List",
  "timestamp": "2024-01-01T00:00:00Z",
  "version": {"major": 2, "minor": 0, "patch": 1},
  "tokens": [
    {
      "chainId": 1,
      "address": "0x6B175474E89094C44Da98b954EedeAC495271d0F",
      "name": "Dai Stablecoin",
      "symbol": "DAI",
      "decimals": 18,
      "logoURI": "https://assets.coingecko.com/coins/images/9956/thumb/dai.png"
    },
    {
      "chainId": 10,
      "address": "0x6B175474E89094C44Da98b954EedeAC495271d0F",
      "name": "Dai Stablecoin",
      "symbol": "DAI",
      "decimals": 18,
      "logoURI": "https://tokens.example/dai.png"
    }
  ]
}`

func writeListFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		address  string
		chain    string
		native   bool
		wantAddr string
		wantID   chain.ID
		wantErr  error
	}{
		{name: "checksummed", address: daiAddress, chain: "ethereum", wantAddr: daiAddress, wantID: chain.Ethereum},
		{name: "lowercase is checksummed", address: "0x6b175474e89094c44da98b954eedeac495271d0f", wantAddr: daiAddress},
		{name: "numeric chain", address: daiAddress, chain: "255", wantAddr: daiAddress, wantID: chain.Kroma},
		{name: "native without address", chain: "kroma", native: true, wantID: chain.Kroma},
		{name: "missing address", chain: "kroma", wantErr: logoerr.ErrInvalidInput},
		{name: "bad address", address: "0x1234", wantErr: logoerr.ErrInvalidAddress},
		{name: "bad checksum", address: "0x6B175474E89094C44Da98b954EedeAC495271d0f", wantErr: logoerr.ErrInvalidChecksum},
		{name: "unknown chain", address: daiAddress, chain: "kromma", wantErr: logoerr.ErrUnsupportedChain},
		{name: "zero chain", address: daiAddress, chain: "0", wantErr: logoerr.ErrInvalidChainID},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			id, err := parseIdentity(tc.address, tc.chain, tc.native)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAddr, id.Address)
			assert.Equal(t, tc.wantID, id.ChainID)
			assert.Equal(t, tc.native, id.IsNative)
		})
	}
}

func TestChainLabel(t *testing.T) {
	t.Parallel()

	assert.Empty(t, chainLabel(0))
	assert.Equal(t, "kroma", chainLabel(chain.Kroma))
	assert.Equal(t, "424242", chainLabel(chain.ID(424242)))
}

// NOT parallel: mutates package-level flag variables.
func TestRunResolve_InitialSourceOnly(t *testing.T) {
	withFlag(t, &resolveChain, "kroma")
	withFlag(t, &resolveFail, 0)
	withFlag(t, &resolveNoLists, false)
	// A list that does not exist proves the lookup never runs
	withFlag(t, &resolveLists, []string{filepath.Join(t.TempDir(), "missing.json")})

	cmd, _, stdout := newTestCommand(t, output.FormatJSON, nil)
	stderr := new(bytes.Buffer)
	cmd.SetErr(stderr)
	require.NoError(t, runResolve(cmd, []string{daiAddress}))
	assert.Empty(t, stderr.String())

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, daiAddress, resp.Address)
	assert.Equal(t, "kroma", resp.Chain)
	assert.Equal(t, placeholder, resp.Source)
	assert.Equal(t, "initial", resp.State)
	assert.Equal(t, []string{placeholder}, resp.Trail)
	assert.Empty(t, resp.Candidates)
}

func TestRunResolve_ConfiguredWellKnown(t *testing.T) {
	withFlag(t, &resolveChain, "kroma")
	withFlag(t, &resolveFail, 0)
	withFlag(t, &resolveNoLists, true)

	cmd, _, stdout := newTestCommand(t, output.FormatJSON, func(c *config.Config) {
		c.Assets.WellKnown = map[string]string{strings.ToLower(daiAddress): "images/dai.png"}
	})
	require.NoError(t, runResolve(cmd, []string{daiAddress}))

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "/static/images/dai.png", resp.Source)
	assert.Equal(t, "initial", resp.State)
}

func TestRunResolve_WalksTokenListCandidates(t *testing.T) {
	withFlag(t, &resolveChain, "")
	withFlag(t, &resolveFail, 2)
	withFlag(t, &resolveNoLists, false)
	withFlag(t, &resolveBackup, "ipfs://QmBackup")
	withFlag(t, &resolveLists, []string{writeListFile(t, daiListJSON)})

	cmd, _, stdout := newTestCommand(t, output.FormatJSON, nil)
	require.NoError(t, runResolve(cmd, []string{daiAddress}))

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "exploring", resp.State)
	assert.Equal(t, []string{
		placeholder,
		"https://tokens.example/dai.png",
		"https://cloudflare-ipfs.com/ipfs/QmBackup/",
	}, resp.Trail)
	assert.Equal(t, "https://cloudflare-ipfs.com/ipfs/QmBackup/", resp.Source)
	assert.Equal(t, []string{
		"https://tokens.example/dai.png",
		"https://cloudflare-ipfs.com/ipfs/QmBackup/",
		"https://ipfs.io/ipfs/QmBackup/",
		"https://assets.coingecko.com/coins/images/9956/large/dai.png",
	}, resp.Candidates)
}

func TestRunResolve_Exhausted(t *testing.T) {
	withFlag(t, &resolveChain, "")
	withFlag(t, &resolveFail, 5)
	withFlag(t, &resolveNoLists, true)
	withFlag(t, &resolveBackup, "https://backup.example/dai.png")
	withFlag(t, &resolveLists, nil)

	cmd, _, stdout := newTestCommand(t, output.FormatText, nil)
	require.NoError(t, runResolve(cmd, []string{daiAddress}))

	text := stdout.String()
	assert.Contains(t, text, "(none)")
	assert.Contains(t, text, "exhausted")
	assert.Contains(t, text, "Sources tried:")
	assert.Contains(t, text, "1. "+placeholder)
	assert.Contains(t, text, "2. https://backup.example/dai.png")
	assert.Contains(t, text, "3. (exhausted)")
	assert.NotContains(t, text, "4. ", "advancing stops once exhausted")
}

func TestRunResolve_Native(t *testing.T) {
	withFlag(t, &resolveChain, "kroma")
	withFlag(t, &resolveNative, true)
	withFlag(t, &resolveFail, 0)

	cmd, _, stdout := newTestCommand(t, output.FormatJSON, nil)
	require.NoError(t, runResolve(cmd, nil))

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.True(t, resp.Native)
	assert.Equal(t, uint64(chain.Kroma), resp.ChainID)
	assert.Equal(t, "/static/images/ethereum-logo.png", resp.Source)
}

func TestRunResolve_InvalidInput(t *testing.T) {
	withFlag(t, &resolveChain, "")
	withFlag(t, &resolveNative, false)
	withFlag(t, &resolveFail, -1)

	cmd, _, _ := newTestCommand(t, output.FormatText, nil)

	err := runResolve(cmd, []string{daiAddress})
	require.ErrorIs(t, err, logoerr.ErrInvalidInput)
	assert.Equal(t, logoerr.ExitInput, logoerr.ExitCode(err))

	err = runResolve(cmd, []string{"not-an-address"})
	require.ErrorIs(t, err, logoerr.ErrInvalidAddress)
}

func TestRunResolve_SharedBadSources(t *testing.T) {
	withFlag(t, &resolveChain, "")
	withFlag(t, &resolveNative, false)
	withFlag(t, &resolveFail, 1)
	withFlag(t, &resolveNoLists, true)
	withFlag(t, &resolveBackup, "https://backup.example/dai.png")

	cmd, cmdCtx, stdout := newTestCommand(t, output.FormatJSON, nil)
	require.NoError(t, runResolve(cmd, []string{daiAddress}))
	assert.True(t, cmdCtx.BadSources.Has(placeholder))

	// A second run sharing the set starts past the failed placeholder
	stdout.Reset()
	withFlag(t, &resolveFail, 0)
	require.NoError(t, runResolve(cmd, []string{daiAddress}))

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "https://backup.example/dai.png", resp.Source)
}

func TestRunCandidates(t *testing.T) {
	withFlag(t, &resolveBackup, "ar://logo-tx")
	withFlag(t, &resolveLists, []string{writeListFile(t, daiListJSON)})

	cmd, _, stdout := newTestCommand(t, output.FormatJSON, nil)
	require.NoError(t, runCandidates(cmd, []string{"0x6b175474e89094c44da98b954eedeac495271d0f"}))

	var resp CandidatesResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, daiAddress, resp.Address)
	assert.Equal(t, []string{
		"https://tokens.example/dai.png",
		"https://arweave.net/logo-tx",
		"https://assets.coingecko.com/coins/images/9956/large/dai.png",
	}, resp.Candidates)
}

func TestRunCandidates_MissingListWarns(t *testing.T) {
	withFlag(t, &resolveBackup, "")
	withFlag(t, &resolveLists, []string{filepath.Join(t.TempDir(), "missing.json")})

	cmd, _, stdout := newTestCommand(t, output.FormatText, nil)
	stderr := new(bytes.Buffer)
	cmd.SetErr(stderr)
	require.NoError(t, runCandidates(cmd, []string{daiAddress}))

	assert.Contains(t, stdout.String(), "No logo candidates for "+daiAddress)
	assert.Contains(t, stderr.String(), "could not be loaded")
}
