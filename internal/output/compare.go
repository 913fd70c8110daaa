package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// CompareResult is one provider's answer for the same block.
type CompareResult struct {
	Provider string
	Number   *hexcodec.U64
	Hash     *hexcodec.Hash
	Latency  time.Duration
	Err      error
}

// HashGroups maps each reported hash to the providers that reported it, with
// providers in input order.
func HashGroups(results []CompareResult) map[hexcodec.Hash][]string {
	groups := make(map[hexcodec.Hash][]string)
	for _, r := range results {
		if r.Err != nil || r.Hash == nil {
			continue
		}
		groups[*r.Hash] = append(groups[*r.Hash], r.Provider)
	}
	return groups
}

// RenderCompareTerminal prints each provider's block hash and whether they agree.
func RenderCompareTerminal(w io.Writer, block string, results []CompareResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold(fmt.Sprintf("Block %s across %d providers", block, len(results))))

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Provider", "Latency", "Number", "Block Hash")
	tbl.WithHeaderFormatter(headerFmt).WithWriter(w)

	for _, r := range results {
		if r.Err != nil {
			tbl.AddRow(r.Provider, "—", "—", red("ERROR: "+r.Err.Error()))
			continue
		}
		number := "—"
		if r.Number != nil {
			number = FormatNumber(uint64(*r.Number))
		}
		hash := "—"
		if r.Hash != nil {
			hash = r.Hash.String()
		}
		tbl.AddRow(r.Provider, FormatDuration(r.Latency), number, hash)
	}
	tbl.Print()
	fmt.Fprintln(w)

	groups := HashGroups(results)
	switch len(groups) {
	case 0:
		fmt.Fprintf(w, "  %s No providers responded successfully\n", red("✗"))
	case 1:
		fmt.Fprintf(w, "  %s All providers agree on block hash\n", green("✓"))
	default:
		fmt.Fprintf(w, "  %s HASH MISMATCH DETECTED:\n", yellow("⚠"))
		hashes := make([]string, 0, len(groups))
		byString := make(map[string][]string, len(groups))
		for h, providers := range groups {
			hashes = append(hashes, h.String())
			byString[h.String()] = providers
		}
		sort.Strings(hashes)
		for _, h := range hashes {
			fmt.Fprintf(w, "    %s  →  %s\n", truncateHash(h), strings.Join(byString[h], ", "))
		}
		fmt.Fprintln(w, "\n  This may indicate stale cache or chain reorganization.")
	}
	fmt.Fprintln(w)
}
