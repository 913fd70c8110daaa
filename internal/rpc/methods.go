package rpc

import (
	"context"
	"time"

	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// Typed wrappers over Call. Each returns the decoded result and the latency of the
// successful attempt. Methods that answer null for "not found" return a nil result
// and no error.

// BlockNumber calls eth_blockNumber.
func (c *Client) BlockNumber(ctx context.Context) (uint64, time.Duration, error) {
	var n hexcodec.U64
	latency, err := c.callInto(ctx, &n, MethodBlockNumber)
	return uint64(n), latency, err
}

// ChainID calls eth_chainId.
func (c *Client) ChainID(ctx context.Context) (uint64, time.Duration, error) {
	var n hexcodec.U64
	latency, err := c.callInto(ctx, &n, MethodChainID)
	return uint64(n), latency, err
}

// Syncing calls eth_syncing.
func (c *Client) Syncing(ctx context.Context) (SyncStatus, time.Duration, error) {
	var s SyncStatus
	latency, err := c.callInto(ctx, &s, MethodSyncing)
	return s, latency, err
}

// BlockByNumber calls eth_getBlockByNumber.
func (c *Client) BlockByNumber(ctx context.Context, n BlockNumber, fullTx bool) (*Block, time.Duration, error) {
	var b *Block
	latency, err := c.callInto(ctx, &b, MethodGetBlockByNumber, n, fullTx)
	return b, latency, err
}

// TransactionByHash calls eth_getTransactionByHash.
func (c *Client) TransactionByHash(ctx context.Context, h hexcodec.Hash) (*Transaction, time.Duration, error) {
	var tx *Transaction
	latency, err := c.callInto(ctx, &tx, MethodGetTransactionByHash, h)
	return tx, latency, err
}

// TransactionReceipt calls eth_getTransactionReceipt.
func (c *Client) TransactionReceipt(ctx context.Context, h hexcodec.Hash) (*TransactionReceipt, time.Duration, error) {
	var r *TransactionReceipt
	latency, err := c.callInto(ctx, &r, MethodGetTransactionReceipt, h)
	return r, latency, err
}

// Logs calls eth_getLogs.
func (c *Client) Logs(ctx context.Context, f LogFilter) ([]TransactionLog, time.Duration, error) {
	var logs []TransactionLog
	latency, err := c.callInto(ctx, &logs, MethodGetLogs, f)
	return logs, latency, err
}

// CallContract calls eth_call and returns the returned bytes.
func (c *Client) CallContract(ctx context.Context, call MessageCall, at BlockNumber) (hexcodec.Bytes, time.Duration, error) {
	var out hexcodec.Bytes
	latency, err := c.callInto(ctx, &out, MethodCall, NewCallArgs(call), at)
	return out, latency, err
}

// EstimateGas calls eth_estimateGas.
func (c *Client) EstimateGas(ctx context.Context, call MessageCall) (uint64, time.Duration, error) {
	var n hexcodec.U64
	latency, err := c.callInto(ctx, &n, MethodEstimateGas, NewCallArgs(call))
	return uint64(n), latency, err
}

func (c *Client) callInto(ctx context.Context, v interface{}, method string, params ...interface{}) (time.Duration, error) {
	resp, latency, err := c.Call(ctx, method, params...)
	if err != nil {
		return latency, err
	}
	if err := resp.Decode(v); err != nil {
		return latency, err
	}
	return latency, nil
}
