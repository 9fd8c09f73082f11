package notifier

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"MarketDigest/internal/model"
	"MarketDigest/internal/recorder"
)

var windowOrder = []string{model.Window24h, model.Window7d, model.Window30d}

// categoryOrder fixes the section order of the market digest; unknown
// categories follow alphabetically.
var categoryOrder = map[string]int{
	"US Indices":            0,
	"International Indices": 1,
	"Commodities":           2,
	"ETFs":                  3,
}

// FormatValue renders an instrument value. Large values get thousands
// separators, FX-sized values keep four decimals.
func FormatValue(v float64) string {
	switch abs := math.Abs(v); {
	case abs >= 1000:
		return humanize.CommafWithDigits(v, 2)
	case abs < 10:
		return fmt.Sprintf("%.4f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatChanges renders the available windows as "24h: +1.6%, 7d: -0.4%".
// Missing windows are skipped, not shown as zero.
func FormatChanges(changes map[string]float64) string {
	parts := make([]string, 0, len(windowOrder))
	for _, w := range windowOrder {
		if c, ok := changes[w]; ok {
			parts = append(parts, fmt.Sprintf("%s: %+.1f%%", w, c))
		}
	}
	return strings.Join(parts, ", ")
}

func formatLine(label, value string, rec model.ChangeRecord) string {
	line := fmt.Sprintf("%s: %s", html.EscapeString(label), value)
	if c := FormatChanges(rec.Changes); c != "" {
		line += " (" + c + ")"
	}
	return line + "\n"
}

// FormatFX formats the currency-pair digest in the given pair order.
func FormatFX(res *model.Result, pairs []string) string {
	if !res.OK() {
		return fmt.Sprintf("⚠️ <b>FX data unavailable</b>\n%s", html.EscapeString(res.Error))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💱 <b>Exchange Rates</b> | %s\n\n", res.Anchor))
	if len(pairs) == 0 {
		pairs = sortedKeys(res.Records)
	}
	for _, pair := range pairs {
		rec, ok := res.Records[pair]
		if !ok {
			continue
		}
		b.WriteString(formatLine(pair, FormatValue(rec.Current), rec))
	}
	return b.String()
}

// FormatMarket formats the market digest grouped by instrument category.
func FormatMarket(res *model.Result) string {
	if !res.OK() {
		return fmt.Sprintf("⚠️ <b>Market data unavailable</b>\n%s", html.EscapeString(res.Error))
	}

	groups := make(map[string][]string)
	for _, ticker := range sortedKeys(res.Records) {
		cat := res.Instruments[ticker].Category
		if cat == "" {
			cat = "Other"
		}
		groups[cat] = append(groups[cat], ticker)
	}
	cats := make([]string, 0, len(groups))
	for c := range groups {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		oi, iok := categoryOrder[cats[i]]
		oj, jok := categoryOrder[cats[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		}
		return cats[i] < cats[j]
	})

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>Markets</b> | %s\n", res.Anchor))
	for _, cat := range cats {
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(cat)))
		for _, ticker := range groups[cat] {
			rec := res.Records[ticker]
			inst := res.Instruments[ticker]
			label := inst.DisplaySymbol
			if label == "" {
				label = ticker
			}
			value := FormatValue(rec.Current)
			if inst.Currency != "" {
				value += " " + inst.Currency
			}
			b.WriteString(formatLine(label, value, rec))
		}
	}
	return b.String()
}

// FormatRuns formats recorded digest runs, newest first.
func FormatRuns(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No digest runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent digests</b>\n\n")
	for _, r := range runs {
		status := "✅"
		if r.Status != model.StatusSuccess {
			status = "❌"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", status, r.Timestamp.Format("2006-01-02 15:04"), r.Kind))
		if r.Anchor != "" {
			b.WriteString(fmt.Sprintf(" (anchor %s, %d instruments)", r.Anchor, r.Instruments))
		}
		if r.Error != "" {
			b.WriteString(": " + html.EscapeString(r.Error))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortedKeys(m map[string]model.ChangeRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
