package rpc

import (
	"sort"
	"strings"
)

// Method names, grouped by namespace.
const (
	MethodBlockNumber                         = "eth_blockNumber"
	MethodChainID                             = "eth_chainId"
	MethodCall                                = "eth_call"
	MethodEstimateGas                         = "eth_estimateGas"
	MethodGasPrice                            = "eth_gasPrice"
	MethodMaxPriorityFeePerGas                = "eth_maxPriorityFeePerGas"
	MethodGetBalance                          = "eth_getBalance"
	MethodGetBlockByHash                      = "eth_getBlockByHash"
	MethodGetBlockByNumber                    = "eth_getBlockByNumber"
	MethodGetBlockTransactionCountByHash      = "eth_getBlockTransactionCountByHash"
	MethodGetBlockTransactionCountByNumber    = "eth_getBlockTransactionCountByNumber"
	MethodGetCode                             = "eth_getCode"
	MethodGetStorageAt                        = "eth_getStorageAt"
	MethodGetTransactionByHash                = "eth_getTransactionByHash"
	MethodGetTransactionByBlockHashAndIndex   = "eth_getTransactionByBlockHashAndIndex"
	MethodGetTransactionByBlockNumberAndIndex = "eth_getTransactionByBlockNumberAndIndex"
	MethodGetTransactionCount                 = "eth_getTransactionCount"
	MethodGetTransactionReceipt               = "eth_getTransactionReceipt"
	MethodGetUncleByBlockHashAndIndex         = "eth_getUncleByBlockHashAndIndex"
	MethodGetUncleByBlockNumberAndIndex       = "eth_getUncleByBlockNumberAndIndex"
	MethodGetUncleCountByBlockHash            = "eth_getUncleCountByBlockHash"
	MethodGetUncleCountByBlockNumber          = "eth_getUncleCountByBlockNumber"
	MethodGetLogs                             = "eth_getLogs"
	MethodSyncing                             = "eth_syncing"

	MethodNetListening = "net_listening"
	MethodNetPeerCount = "net_peerCount"
	MethodNetVersion   = "net_version"

	MethodClientVersion = "web3_clientVersion"

	MethodTraceCall                    = "trace_call"
	MethodTraceCallMany                = "trace_callMany"
	MethodTraceRawTransaction          = "trace_rawTransaction"
	MethodTraceReplayBlockTransactions = "trace_replayBlockTransactions"
	MethodTraceReplayTransaction       = "trace_replayTransaction"
	MethodTraceBlock                   = "trace_block"
	MethodTraceFilter                  = "trace_filter"

	MethodOtsGetAPILevel                    = "ots_getApiLevel"
	MethodOtsGetInternalOperations          = "ots_getInternalOperations"
	MethodOtsSearchTransactionsBefore       = "ots_searchTransactionsBefore"
	MethodOtsSearchTransactionsAfter        = "ots_searchTransactionsAfter"
	MethodOtsGetBlockDetails                = "ots_getBlockDetails"
	MethodOtsGetBlockDetailsByHash          = "ots_getBlockDetailsByHash"
	MethodOtsGetBlockTransactions           = "ots_getBlockTransactions"
	MethodOtsHasCode                        = "ots_hasCode"
	MethodOtsTraceTransaction               = "ots_traceTransaction"
	MethodOtsGetTransactionError            = "ots_getTransactionError"
	MethodOtsGetTransactionBySenderAndNonce = "ots_getTransactionBySenderAndNonce"
	MethodOtsGetContractCreator             = "ots_getContractCreator"

	MethodEngineNewPayload                      = "engine_newPayloadV1"
	MethodEngineForkchoiceUpdated               = "engine_forkchoiceUpdatedV1"
	MethodEngineGetPayload                      = "engine_getPayloadV1"
	MethodEngineExchangeTransitionConfiguration = "engine_exchangeTransitionConfigurationV1"

	MethodDebugAccountRange                = "debug_accountRange"
	MethodDebugGetModifiedAccountsByNumber = "debug_getModifiedAccountsByNumber"
	MethodDebugGetModifiedAccountsByHash   = "debug_getModifiedAccountsByHash"
	MethodDebugTraceTransaction            = "debug_traceTransaction"

	MethodErigonGetHeaderByNumber = "erigon_getHeaderByNumber"

	MethodParityListStorageKeys = "parity_listStorageKeys"
)

// MethodInfo describes the wire shapes of a method.
type MethodInfo struct {
	Name   string
	Params []string
	Result string
}

// Namespace returns the part of the name before the underscore.
func (m MethodInfo) Namespace() string {
	ns, _, _ := strings.Cut(m.Name, "_")
	return ns
}

var catalog = []MethodInfo{
	{MethodBlockNumber, nil, "Quantity"},
	{MethodChainID, nil, "Quantity"},
	{MethodCall, []string{"MessageCall", "BlockNumber"}, "Bytes"},
	{MethodEstimateGas, []string{"MessageCall", "BlockNumber?"}, "Quantity"},
	{MethodGasPrice, nil, "Quantity"},
	{MethodMaxPriorityFeePerGas, nil, "Quantity"},
	{MethodGetBalance, []string{"Address", "BlockNumber"}, "Quantity"},
	{MethodGetBlockByHash, []string{"Hash", "bool"}, "Block?"},
	{MethodGetBlockByNumber, []string{"BlockNumber", "bool"}, "Block?"},
	{MethodGetBlockTransactionCountByHash, []string{"Hash"}, "Quantity"},
	{MethodGetBlockTransactionCountByNumber, []string{"BlockNumber"}, "Quantity"},
	{MethodGetCode, []string{"Address", "BlockNumber"}, "Bytes"},
	{MethodGetStorageAt, []string{"Address", "Quantity", "BlockNumber"}, "Hash"},
	{MethodGetTransactionByHash, []string{"Hash"}, "Transaction?"},
	{MethodGetTransactionByBlockHashAndIndex, []string{"Hash", "Quantity"}, "Transaction?"},
	{MethodGetTransactionByBlockNumberAndIndex, []string{"BlockNumber", "Quantity"}, "Transaction?"},
	{MethodGetTransactionCount, []string{"Address", "BlockNumber"}, "Quantity"},
	{MethodGetTransactionReceipt, []string{"Hash"}, "TransactionReceipt?"},
	{MethodGetUncleByBlockHashAndIndex, []string{"Hash", "Quantity"}, "Block?"},
	{MethodGetUncleByBlockNumberAndIndex, []string{"BlockNumber", "Quantity"}, "Block?"},
	{MethodGetUncleCountByBlockHash, []string{"Hash"}, "Quantity"},
	{MethodGetUncleCountByBlockNumber, []string{"BlockNumber"}, "Quantity"},
	{MethodGetLogs, []string{"LogFilter"}, "[]TransactionLog"},
	{MethodSyncing, nil, "SyncStatus"},

	{MethodNetListening, nil, "bool"},
	{MethodNetPeerCount, nil, "Quantity"},
	{MethodNetVersion, nil, "string"},

	{MethodClientVersion, nil, "string"},

	{MethodTraceCall, []string{"MessageCall", "[]TraceType", "BlockID?"}, "FullTrace"},
	{MethodTraceCallMany, []string{"[](MessageCall, []TraceType)", "BlockID?"}, "[]FullTrace"},
	{MethodTraceRawTransaction, []string{"Bytes", "[]TraceType", "BlockID?"}, "FullTrace"},
	{MethodTraceReplayBlockTransactions, []string{"BlockID", "[]TraceType"}, "[]FullTraceWithTransactionHash?"},
	{MethodTraceReplayTransaction, []string{"Hash", "[]TraceType"}, "FullTrace"},
	{MethodTraceBlock, []string{"BlockID"}, "[]TransactionTraceWithLocation?"},
	{MethodTraceFilter, []string{"TraceFilter"}, "[]TransactionTraceWithLocation"},

	{MethodOtsGetAPILevel, nil, "number"},
	{MethodOtsGetInternalOperations, []string{"Hash"}, "[]InternalOperation"},
	{MethodOtsSearchTransactionsBefore, []string{"Address", "number", "number"}, "TransactionsWithReceipts"},
	{MethodOtsSearchTransactionsAfter, []string{"Address", "number", "number"}, "TransactionsWithReceipts"},
	{MethodOtsGetBlockDetails, []string{"number"}, "BlockDetails?"},
	{MethodOtsGetBlockDetailsByHash, []string{"Hash"}, "BlockDetails?"},
	{MethodOtsGetBlockTransactions, []string{"number", "number", "number"}, "BlockTransactions?"},
	{MethodOtsHasCode, []string{"Address", "BlockID"}, "bool"},
	{MethodOtsTraceTransaction, []string{"Hash"}, "[]TraceEntry"},
	{MethodOtsGetTransactionError, []string{"Hash"}, "Bytes"},
	{MethodOtsGetTransactionBySenderAndNonce, []string{"Address", "number"}, "Hash?"},
	{MethodOtsGetContractCreator, []string{"Address"}, "ContractCreatorData?"},

	{MethodEngineNewPayload, []string{"ExecutionPayload"}, "PayloadStatus"},
	{MethodEngineForkchoiceUpdated, []string{"ForkchoiceState", "PayloadAttributes?"}, "ForkchoiceUpdatedResponse"},
	{MethodEngineGetPayload, []string{"Nonce"}, "ExecutionPayload"},
	{MethodEngineExchangeTransitionConfiguration, []string{"TransitionConfiguration"}, "TransitionConfiguration"},

	{MethodDebugAccountRange, []string{"BlockID", "number", "Hash", "number"}, "null"},
	{MethodDebugGetModifiedAccountsByNumber, []string{"BlockNumber"}, "[]Address"},
	{MethodDebugGetModifiedAccountsByHash, []string{"Hash"}, "[]Address"},
	{MethodDebugTraceTransaction, []string{"Hash"}, "null"},

	{MethodErigonGetHeaderByNumber, []string{"number"}, "Header?"},

	{MethodParityListStorageKeys, []string{"Address", "number", "Hash?", "BlockID?"}, "[]Hash?"},
}

var catalogByName = func() map[string]MethodInfo {
	m := make(map[string]MethodInfo, len(catalog))
	for _, info := range catalog {
		if _, dup := m[info.Name]; dup {
			panic("rpc: duplicate method " + info.Name)
		}
		m[info.Name] = info
	}
	return m
}()

// LookupMethod returns the catalog entry for name.
func LookupMethod(name string) (MethodInfo, bool) {
	info, ok := catalogByName[name]
	return info, ok
}

// Methods returns the catalog entries of a namespace, or all entries when ns is empty,
// sorted by name.
func Methods(ns string) []MethodInfo {
	var out []MethodInfo
	for _, info := range catalog {
		if ns == "" || info.Namespace() == ns {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Namespaces lists the namespaces in the catalog.
func Namespaces() []string {
	seen := map[string]bool{}
	var out []string
	for _, info := range catalog {
		if ns := info.Namespace(); !seen[ns] {
			seen[ns] = true
			out = append(out, ns)
		}
	}
	sort.Strings(out)
	return out
}
