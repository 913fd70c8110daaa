package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/ethrpc-types/internal/hexcodec"
	"github.com/dmagro/ethrpc-types/internal/rpc"
)

// Colors for status indicators
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════════"

// Source says which provider answered and how fast.
type Source struct {
	Provider string
	Latency  time.Duration
}

func renderSource(w io.Writer, src Source) {
	if src.Provider == "" {
		return
	}
	fmt.Fprintf(w, "  %s    %s (%s)\n", cyan("Fetched via:"), src.Provider, FormatDuration(src.Latency))
	fmt.Fprintln(w)
}

func renderTitle(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold(title))
	fmt.Fprintln(w, rule)
}

// field prints one aligned "label: value" line.
func field(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "  %s %v\n", cyan(fmt.Sprintf("%-15s", label+":")), value)
}

func orDash[T fmt.Stringer](v *T) string {
	if v == nil {
		return "—"
	}
	return (*v).String()
}

// RenderBlock prints the header fields of a block and a transaction summary.
func RenderBlock(w io.Writer, b *rpc.Block, src Source, now time.Time) {
	title := "Pending block"
	if b.Number != nil {
		title = fmt.Sprintf("Block #%s", FormatNumber(uint64(*b.Number)))
	}
	renderTitle(w, title)
	field(w, "Hash", orDash(b.Hash))
	field(w, "Parent", b.ParentHash)
	field(w, "Miner", b.Miner)
	field(w, "Timestamp", FormatTimestamp(uint64(b.Timestamp), now))
	fmt.Fprintln(w)
	field(w, "Gas Used", fmt.Sprintf("%s / %s (%s)",
		FormatNumber(uint64(b.GasUsed)),
		FormatNumber(uint64(b.GasLimit)),
		FormatGasPercent(uint64(b.GasUsed), uint64(b.GasLimit))))
	if b.BaseFeePerGas != nil {
		field(w, "Base Fee", FormatGwei(*b.BaseFeePerGas))
	} else {
		field(w, "Base Fee", "— (pre-EIP-1559)")
	}
	field(w, "Size", FormatNumber(uint64(b.Size))+" bytes")
	txs := fmt.Sprintf("%d", len(b.Transactions))
	if b.FullTransactions() {
		txs += " (full)"
	}
	field(w, "Transactions", txs)
	if len(b.Uncles) > 0 {
		field(w, "Uncles", len(b.Uncles))
	}
	fmt.Fprintln(w)
	renderSource(w, src)
}

// RenderTransaction prints a transaction with its variant-specific fee fields.
func RenderTransaction(w io.Writer, tx *rpc.Transaction, src Source) {
	renderTitle(w, fmt.Sprintf("Transaction (%s)", tx.Message.Type()))
	field(w, "Hash", tx.Hash)
	field(w, "From", tx.From)
	if tx.Pending() {
		field(w, "Block", yellow("pending"))
	} else {
		field(w, "Block", fmt.Sprintf("%s (index %s)", orDash(tx.BlockNumber), orDash(tx.TransactionIndex)))
	}
	fmt.Fprintln(w)

	switch m := tx.Message.(type) {
	case *rpc.LegacyTx:
		renderRecipient(w, m.To)
		field(w, "Nonce", uint64(m.Nonce))
		field(w, "Value", FormatEther(m.Value))
		field(w, "Gas", FormatNumber(uint64(m.Gas)))
		field(w, "Gas Price", FormatGwei(m.GasPrice))
		if m.ChainID != nil {
			field(w, "Chain ID", uint64(*m.ChainID))
		}
		field(w, "Input", describeInput(m.Input))
	case *rpc.AccessListTx:
		renderRecipient(w, m.To)
		field(w, "Nonce", uint64(m.Nonce))
		field(w, "Value", FormatEther(m.Value))
		field(w, "Gas", FormatNumber(uint64(m.Gas)))
		field(w, "Gas Price", FormatGwei(m.GasPrice))
		field(w, "Chain ID", uint64(m.ChainID))
		field(w, "Input", describeInput(m.Input))
		renderAccessList(w, m.AccessList)
	case *rpc.DynamicFeeTx:
		renderRecipient(w, m.To)
		field(w, "Nonce", uint64(m.Nonce))
		field(w, "Value", FormatEther(m.Value))
		field(w, "Gas", FormatNumber(uint64(m.Gas)))
		field(w, "Max Fee", FormatGwei(m.MaxFeePerGas))
		field(w, "Priority Fee", FormatGwei(m.MaxPriorityFeePerGas))
		field(w, "Chain ID", uint64(m.ChainID))
		field(w, "Input", describeInput(m.Input))
		renderAccessList(w, m.AccessList)
	}
	fmt.Fprintln(w)
	renderSource(w, src)
}

func renderRecipient(w io.Writer, to *hexcodec.Address) {
	if to == nil {
		field(w, "To", yellow("contract creation"))
		return
	}
	field(w, "To", *to)
}

func renderAccessList(w io.Writer, al rpc.AccessList) {
	keys := 0
	for _, e := range al {
		keys += len(e.StorageKeys)
	}
	field(w, "Access List", fmt.Sprintf("%d addresses, %d storage keys", len(al), keys))
}

func describeInput(b hexcodec.Bytes) string {
	if len(b) == 0 {
		return "—"
	}
	if len(b) < 4 {
		return b.String()
	}
	return fmt.Sprintf("selector %s, %d bytes", hexcodec.Bytes(b[:4]), len(b))
}

// RenderReceipt prints execution results and the emitted logs.
func RenderReceipt(w io.Writer, r *rpc.TransactionReceipt, src Source) {
	renderTitle(w, "Transaction Receipt")
	field(w, "Transaction", r.TransactionHash)
	field(w, "Block", fmt.Sprintf("%s (index %d)", FormatNumber(uint64(r.BlockNumber)), uint64(r.TransactionIndex)))
	switch {
	case r.Status == nil:
		field(w, "Status", "— (pre-Byzantium)")
	case r.Succeeded():
		field(w, "Status", green("✓ success"))
	default:
		field(w, "Status", red("✗ reverted"))
	}
	field(w, "Gas Used", FormatNumber(uint64(r.GasUsed)))
	if r.EffectiveGasPrice != nil {
		field(w, "Gas Price", FormatGwei(*r.EffectiveGasPrice))
	}
	if r.CreatedContract() {
		field(w, "Created", *r.ContractAddress)
	}
	fmt.Fprintln(w)
	if len(r.Logs) > 0 {
		RenderLogs(w, r.Logs, Source{})
	}
	renderSource(w, src)
}

// RenderLogs prints logs as a table, one row per log.
func RenderLogs(w io.Writer, logs []rpc.TransactionLog, src Source) {
	fmt.Fprintln(w, bold(fmt.Sprintf("Logs (%d)", len(logs))))

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Block", "Index", "Address", "Topic0", "Topics", "Data")
	tbl.WithHeaderFormatter(headerFmt).WithWriter(w)

	for _, l := range logs {
		topic0 := "—"
		if len(l.Topics) > 0 {
			topic0 = truncateHash(l.Topics[0].String())
		}
		data := fmt.Sprintf("%d bytes", len(l.Data))
		if l.Removed {
			data = red("removed")
		}
		tbl.AddRow(orDash(l.BlockNumber), orDash(l.LogIndex), truncateHash(l.Address.String()), topic0, len(l.Topics), data)
	}
	tbl.Print()
	fmt.Fprintln(w)
	renderSource(w, src)
}

// RenderSyncStatus prints whether the node is syncing and how far along it is.
func RenderSyncStatus(w io.Writer, s rpc.SyncStatus, src Source) {
	renderTitle(w, "Sync Status")
	p := s.Progress()
	if p == nil {
		field(w, "Syncing", green("✓ in sync"))
		fmt.Fprintln(w)
		renderSource(w, src)
		return
	}

	field(w, "Syncing", yellow("⚠ syncing"))
	if p.StartingBlock != nil {
		field(w, "Starting Block", FormatNumber(uint64(*p.StartingBlock)))
	}
	field(w, "Current Block", FormatNumber(uint64(p.CurrentBlock)))
	field(w, "Highest Block", FormatNumber(uint64(p.HighestBlock)))
	if p.HighestBlock > p.CurrentBlock {
		field(w, "Behind", fmt.Sprintf("%s blocks", FormatNumber(uint64(p.HighestBlock-p.CurrentBlock))))
	}
	if p.PulledStates != nil && p.KnownStates != nil {
		field(w, "States", fmt.Sprintf("%s / %s", FormatNumber(uint64(*p.PulledStates)), FormatNumber(uint64(*p.KnownStates))))
	}
	fmt.Fprintln(w)
	renderSource(w, src)
}

// RenderBalance prints the result of a balanceOf call.
func RenderBalance(w io.Writer, token, holder hexcodec.Address, amount hexcodec.U256, decimals int32, symbol string, src Source) {
	title := "Token Balance"
	if symbol != "" {
		title = symbol + " Balance"
	}
	renderTitle(w, title)
	field(w, "Contract", token)
	field(w, "Address", holder)
	fmt.Fprintln(w)
	field(w, "Balance", color.New(color.FgGreen, color.Bold).Sprint(FormatTokenAmount(amount, decimals, symbol)))
	field(w, "Raw Amount", amount.Big().String())
	fmt.Fprintln(w)
	renderSource(w, src)
}

// RenderMethods lists catalog entries as a table.
func RenderMethods(w io.Writer, methods []rpc.MethodInfo) {
	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Method", "Params", "Result")
	tbl.WithHeaderFormatter(headerFmt).WithWriter(w)

	for _, m := range methods {
		params := strings.Join(m.Params, ", ")
		if params == "" {
			params = "—"
		}
		tbl.AddRow(m.Name, params, m.Result)
	}
	tbl.Print()
}

// DisableColors turns off color output (for non-TTY or JSON mode)
func DisableColors() {
	color.NoColor = true
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
