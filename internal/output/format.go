package output

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

const (
	etherDecimals = 18
	gweiDecimals  = 9
)

// FormatUnits scales an integer amount down by 10^decimals, dropping trailing zeros:
// 1500000000000000000 with 18 decimals is "1.5".
func FormatUnits(v hexcodec.U256, decimals int32) string {
	return decimal.NewFromBigInt(v.Big(), -decimals).String()
}

// FormatEther renders a wei amount in ether.
func FormatEther(wei hexcodec.U256) string {
	return FormatUnits(wei, etherDecimals) + " ETH"
}

// FormatGwei renders a wei amount in gwei with two decimal places, the unit fees are
// usually quoted in.
func FormatGwei(wei hexcodec.U256) string {
	return decimal.NewFromBigInt(wei.Big(), -gweiDecimals).StringFixed(2) + " gwei"
}

// FormatTokenAmount renders a raw ERC-20 amount with the token's decimals and symbol.
func FormatTokenAmount(v hexcodec.U256, decimals int32, symbol string) string {
	s := FormatUnits(v, decimals)
	if symbol == "" {
		return s
	}
	return s + " " + symbol
}

// FormatNumber inserts thousands separators: 30000000 is "30,000,000".
func FormatNumber(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatGasPercent is used/limit as a percentage with one decimal.
func FormatGasPercent(used, limit uint64) string {
	if limit == 0 {
		return "—"
	}
	pct := float64(used) / float64(limit) * 100
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatTimestamp renders a unix timestamp in UTC followed by its age relative to now.
func FormatTimestamp(ts uint64, now time.Time) string {
	t := time.Unix(int64(ts), 0).UTC()
	ago := now.Sub(t)

	var agoStr string
	switch {
	case ago < 0:
		agoStr = "in the future"
	case ago < time.Minute:
		agoStr = fmt.Sprintf("%d seconds ago", int(ago.Seconds()))
	case ago < time.Hour:
		agoStr = fmt.Sprintf("%d minutes ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		agoStr = fmt.Sprintf("%d hours ago", int(ago.Hours()))
	default:
		agoStr = fmt.Sprintf("%d days ago", int(ago.Hours()/24))
	}

	return fmt.Sprintf("%s (%s)", t.Format("2006-01-02 15:04:05 UTC"), agoStr)
}

// FormatDuration picks a unit that keeps latencies short.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "—"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func truncateHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:6] + "..." + hash[len(hash)-4:]
}
