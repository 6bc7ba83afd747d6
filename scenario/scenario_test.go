package scenario

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"palletchain/core"
	"palletchain/core/types"
	"palletchain/native/balances"
)

const transfers = `
name: transfers
genesis:
  alice: "100"
blocks:
  - extrinsics:
      - {caller: alice, call: balances.transfer, to: bob, amount: "30"}
      - {caller: bob, call: balances.transfer, to: charlie, amount: "50"}
      - {caller: alice, call: balances.transfer, to: charlie, amount: "20"}
  - extrinsics:
      - {caller: charlie, call: claims.create_claim, content: "deed"}
      - {caller: charlie, call: claims.revoke_claim, content: "deed"}
`

type discardMetrics struct{}

func (discardMetrics) ObserveExtrinsic(string, string, error) {}
func (discardMetrics) ObserveBlock(uint64, int, time.Duration) {}
func (discardMetrics) RecordRejectedBlock()                    {}
func (discardMetrics) RecordEvent(string)                      {}

func TestParseBuildsBlocks(t *testing.T) {
	sc, err := Parse([]byte(transfers))
	require.NoError(t, err)
	require.Equal(t, "transfers", sc.Name)
	require.Equal(t, uint64(100), sc.Genesis.Balances["alice"].Uint64())
	require.Len(t, sc.Blocks, 2)
	require.Len(t, sc.Blocks[0], 3)

	first := sc.Blocks[0][0]
	require.Equal(t, types.AccountID("alice"), first.Caller)
	require.Equal(t, "balances", first.Call.Pallet())
	require.Equal(t, "transfer", first.Call.Name())
	call, ok := first.Call.(core.BalancesCall)
	require.True(t, ok)
	transfer, ok := call.Call.(balances.Transfer)
	require.True(t, ok)
	require.Equal(t, types.AccountID("bob"), transfer.To)
	require.Equal(t, uint64(30), transfer.Amount.Uint64())

	require.Equal(t, "revoke_claim", sc.Blocks[1][1].Call.Name())
}

func TestScenarioDrivesRuntime(t *testing.T) {
	sc, err := Parse([]byte(transfers))
	require.NoError(t, err)

	rt := core.New(
		core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		core.WithMetrics(discardMetrics{}),
	)
	defer rt.Close()
	require.NoError(t, rt.InitGenesis(sc.Genesis))

	var receipts []*core.Receipt
	for _, xts := range sc.Blocks {
		block, err := rt.NextBlock(xts...)
		require.NoError(t, err)
		receipt, err := rt.ExecuteBlock(block)
		require.NoError(t, err)
		receipts = append(receipts, receipt)
	}
	require.Equal(t, 1, receipts[0].Failed())
	require.Zero(t, receipts[1].Failed())

	for who, want := range map[types.AccountID]uint64{"alice": 50, "bob": 30, "charlie": 20} {
		got, err := rt.Balance(who)
		require.NoError(t, err)
		require.Equal(t, want, got.Uint64(), who)
	}
	number, err := rt.BlockNumber()
	require.NoError(t, err)
	require.Equal(t, uint64(2), number)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown call":   "blocks:\n  - extrinsics:\n      - {caller: a, call: staking.bond}\n",
		"missing caller": "blocks:\n  - extrinsics:\n      - {call: claims.create_claim, content: x}\n",
		"missing to":     "blocks:\n  - extrinsics:\n      - {caller: a, call: balances.transfer, amount: \"1\"}\n",
		"bad amount":     "blocks:\n  - extrinsics:\n      - {caller: a, call: balances.transfer, to: b, amount: \"ten\"}\n",
		"bad genesis":    "genesis:\n  a: lots\n",
		"unknown field":  "blocks:\n  - extrinsics:\n      - {caller: a, call: claims.create_claim, memo: x}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}

	_, err := Parse([]byte("blocks:\n  - extrinsics:\n      - {caller: a, call: staking.bond}\n"))
	require.ErrorIs(t, err, ErrUnknownCall)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("")
	require.NoError(t, err)
	require.True(t, amount.IsZero())

	amount, err = ParseAmount("0x10")
	require.NoError(t, err)
	require.Equal(t, uint64(16), amount.Uint64())

	amount, err = ParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	require.Equal(t, 256, amount.BitLen())
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(transfers), 0o600))
	sc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, sc.Blocks, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	empty, err := Parse(nil)
	require.NoError(t, err)
	require.Empty(t, empty.Blocks)
}

func TestGenesisAccountsMustBeDistinct(t *testing.T) {
	_, err := Parse([]byte("genesis:\n  alice: \"1\"\n  \" alice\": \"2\"\n"))
	require.ErrorIs(t, err, ErrDuplicateAccount)

	_, err = Parse([]byte("genesis:\n  \"  \": \"5\"\n"))
	require.ErrorIs(t, err, ErrMissingField)

	sc, err := Parse([]byte("genesis:\n  \" bob \": \"7\"\n"))
	require.NoError(t, err)
	require.Equal(t, uint64(7), sc.Genesis.Balances["bob"].Uint64())
}
