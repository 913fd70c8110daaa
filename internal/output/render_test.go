package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
	"github.com/dmagro/ethrpc-types/internal/rpc"
)

var (
	hashA = hexcodec.MustHash("0x" + strings.Repeat("aa", 32))
	hashB = hexcodec.MustHash("0x" + strings.Repeat("bb", 32))
	addr  = hexcodec.MustAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"a": "<b>"}, false))
	assert.Equal(t, "{\"a\":\"<b>\"}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}, true))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWriteRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, []byte(`{ "a" : [1, 2] }`), false))
	assert.Equal(t, "{\"a\":[1,2]}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRaw(&buf, []byte(`{"a":1}`), true))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRaw(&buf, []byte(`not json`), true))
	assert.Equal(t, "not json\n", buf.String())
}

func checkResults() []CheckResult {
	return []CheckResult{
		{Source: "good.json", Canonical: []byte(`{"to":"0x01"}`)},
		{Source: "bad.json", Stage: "decode", Err: codec.WithField(codec.MissingField("storageKeys"), "accessList")},
	}
}

func TestRenderCheckJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCheckJSON(&buf, "call", checkResults()))

	var report CheckReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "call", report.Kind)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 2)
	assert.JSONEq(t, `{"to":"0x01"}`, string(report.Results[0].Canonical))
	assert.Equal(t, "accessList.storageKeys", report.Results[1].Path)
	assert.Contains(t, report.Results[1].Error, "missing field")
}

func TestRenderCheckTerminal(t *testing.T) {
	var buf bytes.Buffer
	RenderCheckTerminal(&buf, "call", checkResults())
	out := buf.String()
	assert.Contains(t, out, "Round-trip check: call")
	assert.Contains(t, out, "good.json")
	assert.Contains(t, out, "accessList.storageKeys")
	assert.Contains(t, out, "1/2 documents failed")

	buf.Reset()
	RenderCheckTerminal(&buf, "call", checkResults()[:1])
	assert.Contains(t, buf.String(), "1/1 documents round-trip canonically")

	buf.Reset()
	RenderCheckTerminal(&buf, "call", nil)
	assert.Contains(t, buf.String(), "no documents checked")
}

func TestCompare(t *testing.T) {
	n := hexcodec.U64(18_000_000)
	results := []CompareResult{
		{Provider: "alchemy", Number: &n, Hash: &hashA, Latency: 40 * time.Millisecond},
		{Provider: "infura", Number: &n, Hash: &hashA, Latency: 55 * time.Millisecond},
		{Provider: "local", Err: errors.New("connection refused")},
	}

	groups := HashGroups(results)
	assert.Equal(t, map[hexcodec.Hash][]string{hashA: {"alchemy", "infura"}}, groups)

	var buf bytes.Buffer
	RenderCompareTerminal(&buf, "latest", results)
	out := buf.String()
	assert.Contains(t, out, "18,000,000")
	assert.Contains(t, out, "ERROR: connection refused")
	assert.Contains(t, out, "All providers agree")

	results[1].Hash = &hashB
	buf.Reset()
	RenderCompareTerminal(&buf, "latest", results)
	out = buf.String()
	assert.Contains(t, out, "HASH MISMATCH DETECTED")
	assert.Contains(t, out, "0xaaaa...aaaa  →  alchemy")
	assert.Contains(t, out, "0xbbbb...bbbb  →  infura")

	buf.Reset()
	RenderCompareTerminal(&buf, "latest", results[2:])
	assert.Contains(t, buf.String(), "No providers responded successfully")
}

func TestRenderBlock(t *testing.T) {
	n := hexcodec.U64(18_000_000)
	fee := hexcodec.NewU256(12_500_000_000)
	b := &rpc.Block{
		Header: rpc.Header{
			Number:        &n,
			Hash:          &hashA,
			ParentHash:    hashB,
			Miner:         addr,
			GasLimit:      30_000_000,
			GasUsed:       15_000_000,
			Timestamp:     1_700_000_000,
			BaseFeePerGas: &fee,
		},
		Size:         1234,
		Transactions: []rpc.Tx{rpc.TxHash(hashB)},
	}

	var buf bytes.Buffer
	RenderBlock(&buf, b, Source{Provider: "local", Latency: 3 * time.Millisecond}, time.Unix(1_700_000_012, 0))
	out := buf.String()
	assert.Contains(t, out, "Block #18,000,000")
	assert.Contains(t, out, hashA.String())
	assert.Contains(t, out, "15,000,000 / 30,000,000 (50.0%)")
	assert.Contains(t, out, "12.50 gwei")
	assert.Contains(t, out, "12 seconds ago")
	assert.Contains(t, out, "local (3ms)")
	assert.NotContains(t, out, "(full)")

	pending := &rpc.Block{}
	buf.Reset()
	RenderBlock(&buf, pending, Source{}, time.Unix(0, 0))
	assert.Contains(t, buf.String(), "Pending block")
	assert.Contains(t, buf.String(), "pre-EIP-1559")
	assert.NotContains(t, buf.String(), "Fetched via")
}

func TestRenderTransaction(t *testing.T) {
	tx := &rpc.Transaction{
		Message: &rpc.DynamicFeeTx{
			ChainID:              1,
			Gas:                  21_000,
			MaxFeePerGas:         hexcodec.NewU256(30_000_000_000),
			MaxPriorityFeePerGas: hexcodec.NewU256(1_000_000_000),
			Value:                hexcodec.NewU256(1_000_000_000_000_000_000),
			Input:                hexcodec.Bytes{0xa9, 0x05, 0x9c, 0xbb, 0x00},
			AccessList:           rpc.AccessList{{Address: addr, StorageKeys: []hexcodec.Hash{hashA, hashB}}},
		},
		From: addr,
		Hash: hashA,
	}

	var buf bytes.Buffer
	RenderTransaction(&buf, tx, Source{})
	out := buf.String()
	assert.Contains(t, out, "Transaction (dynamic-fee)")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "contract creation")
	assert.Contains(t, out, "1 ETH")
	assert.Contains(t, out, "30.00 gwei")
	assert.Contains(t, out, "selector 0xa9059cbb, 5 bytes")
	assert.Contains(t, out, "1 addresses, 2 storage keys")
}

func TestRenderReceiptAndLogs(t *testing.T) {
	failed := hexcodec.U64(0)
	block := hexcodec.U64(16)
	idx := hexcodec.U64(3)
	r := &rpc.TransactionReceipt{
		TransactionHash: hashA,
		BlockNumber:     16,
		GasUsed:         50_000,
		Status:          &failed,
		ContractAddress: &addr,
		Logs: []rpc.TransactionLog{
			{Address: addr, Topics: []hexcodec.Hash{hashB}, Data: make(hexcodec.Bytes, 64), BlockNumber: &block, LogIndex: &idx},
		},
	}

	var buf bytes.Buffer
	RenderReceipt(&buf, r, Source{})
	out := buf.String()
	assert.Contains(t, out, "reverted")
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "Logs (1)")
	assert.Contains(t, out, "0xbbbb...bbbb")
	assert.Contains(t, out, "64 bytes")
}

func TestRenderSyncStatus(t *testing.T) {
	var buf bytes.Buffer
	RenderSyncStatus(&buf, rpc.NotSyncing, Source{})
	assert.Contains(t, buf.String(), "in sync")

	buf.Reset()
	RenderSyncStatus(&buf, rpc.Syncing(1_000, 989), Source{})
	out := buf.String()
	assert.Contains(t, out, "syncing")
	assert.Contains(t, out, "11 blocks")
	assert.NotContains(t, out, "Starting Block")
}

func TestRenderBalance(t *testing.T) {
	var buf bytes.Buffer
	RenderBalance(&buf, addr, addr, hexcodec.NewU256(1_500_000), 6, "USDC", Source{})
	out := buf.String()
	assert.Contains(t, out, "USDC Balance")
	assert.Contains(t, out, "1.5 USDC")
	assert.Contains(t, out, "1500000")
}

func TestRenderMethods(t *testing.T) {
	var buf bytes.Buffer
	RenderMethods(&buf, rpc.Methods("net"))
	out := buf.String()
	assert.Contains(t, out, "net_peerCount")
	assert.Contains(t, out, "Quantity")
}
