package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/wonny/sepa/backend/internal/brain"
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/fundamental"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// RunMetadata holds the header of a screening or collection run
type RunMetadata struct {
	RunID    string
	Title    string
	AsOf     string
	Year     int
	Strategy string
	Symbols  int
}

// PrintRunHeader prints a formatted run header
func PrintRunHeader(meta RunMetadata) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", meta.Title)
	PrintSeparator()
	if meta.RunID != "" {
		fmt.Printf("  Run ID    : %s\n", meta.RunID)
	}
	fmt.Printf("  As Of     : %s\n", meta.AsOf)
	if meta.Year > 0 {
		fmt.Printf("  Year      : %d (사업보고서)\n", meta.Year)
	}
	if meta.Strategy != "" {
		fmt.Printf("  Strategy  : %s\n", meta.Strategy)
	}
	fmt.Printf("  Symbols   : %d\n", meta.Symbols)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row. Hangul takes two terminal cells.
func PrintTableRow(values []string, widths []int) {
	var b strings.Builder
	for i, val := range values {
		b.WriteString(val)
		if pad := widths[i] - displayWidth(val); pad > 0 && i < len(values)-1 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		if i < len(values)-1 {
			b.WriteString("  ")
		}
	}
	fmt.Println(b.String())
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintJSON writes v as indented JSON to stdout
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			w += 2
		} else {
			w++
		}
	}
	return w
}

// pct renders a [0, 1] score as a percentage
func pct(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

var leaderboardColumns = []string{"#", "Code", "Name", "Total", "Trend", "Fund", "RS", "Pattern", "T/F/R", "Recommendation"}
var leaderboardWidths = []int{3, 6, 14, 6, 6, 6, 6, 7, 5, 14}

// PrintLeaderboard prints ranked rows as a table
func PrintLeaderboard(stocks []contracts.RankedStock) {
	PrintTableHeader(leaderboardColumns, leaderboardWidths)
	for _, s := range stocks {
		b := s.Bundle
		PrintTableRow([]string{
			fmt.Sprintf("%d", s.Rank),
			s.Code,
			s.Name,
			pct(b.Total),
			pct(b.Trend),
			pct(b.Fundamental),
			pct(b.RS),
			pct(b.Pattern),
			mark(b.Filters.Trend) + mark(b.Filters.Fundamental) + mark(b.Filters.RS),
			fmt.Sprintf("%s (%s)", b.Recommendation.Description(), b.Recommendation),
		}, leaderboardWidths)
	}
}

// PrintStockDetail prints the full breakdown of one stock
func PrintStockDetail(result *brain.RunResult, detail *brain.StockDetail, thresholds fundamental.Thresholds) {
	ev := detail.Evaluation
	b := ev.Bundle

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s (%s)\n", detail.Name, detail.Symbol.Code)
	PrintSeparator()
	if ranked, ok := result.Leaderboard.Find(detail.Symbol.Code); ok {
		PrintKeyValue("Rank", fmt.Sprintf("%d / %d", ranked.Rank, result.Leaderboard.Count()), 14)
	} else {
		PrintKeyValue("Rank", "제외 (데이터 부족)", 14)
	}
	PrintKeyValue("Total", pct(b.Total), 14)
	PrintKeyValue("Recommend", fmt.Sprintf("%s (%s)", b.Recommendation.Description(), b.Recommendation), 14)
	PrintKeyValue("Trend", fmt.Sprintf("%s  %d/4  filter %s", pct(b.Trend), ev.Trend.Count(), mark(b.Filters.Trend)), 14)
	PrintKeyValue("Fundamental", fmt.Sprintf("%s  filter %s", pct(b.Fundamental), mark(b.Filters.Fundamental)), 14)
	PrintKeyValue("RS", fmt.Sprintf("%s  13W %.1f%%  26W %.1f%%  filter %s", pct(b.RS), ev.RS.Return13W, ev.RS.Return26W, mark(b.Filters.RS)), 14)
	PrintKeyValue("Pattern", pct(b.Pattern), 14)

	PrintSeparator()
	fmt.Println("  Trend Template")
	PrintKeyValue("Price > MAs", mark(ev.Trend.PriceAboveMA), 14)
	PrintKeyValue("MA alignment", mark(ev.Trend.MAAlignment), 14)
	PrintKeyValue("MA slope", mark(ev.Trend.MASlope), 14)
	PrintKeyValue("52W range", mark(ev.Trend.PriceVs52W), 14)

	PrintSeparator()
	fmt.Println("  Fundamentals")
	printCriteria(fundamental.Status(ev.Metrics, thresholds, detail.HasStatements))
	if peers, ok := result.PeerRank(detail.Symbol.Code); ok {
		PrintKeyValue("Peer pctile", fmt.Sprintf("매출 %.0f  영업이익 %.0f  ROE %.0f  부채 %.0f  (%d개 종목)",
			peers.SalesGrowth, peers.OperatingIncomeGrowth, peers.ROE, peers.DebtRatio, peers.Peers), 14)
	}

	PrintSeparator()
	fmt.Println("  Patterns")
	if ev.Patterns.Count() == 0 {
		fmt.Println("   (none)")
	}
	for _, kind := range contracts.AllPatternKinds() {
		for _, e := range ev.Patterns[kind] {
			line := fmt.Sprintf("%s  %-12s  %.0f  strength %.2f", e.Date.Format("2006-01-02"), kind, e.Price, e.Strength)
			if e.Direction != "" {
				line += "  " + string(e.Direction)
			}
			fmt.Printf("   %s\n", line)
		}
	}

	if len(b.Warnings) > 0 {
		PrintSeparator()
		for _, w := range b.Warnings {
			PrintWarning(fmt.Sprintf("[%s] %s", w.Code, w.Message))
		}
	}
	PrintDoubleSeparator()
}

func printCriteria(criteria []fundamental.CriterionStatus) {
	for _, c := range criteria {
		PrintKeyValue(c.Name, fmt.Sprintf("%.1f%%  (%s)  %s", c.Value, c.Rule, mark(c.Passed)), 14)
	}
}
