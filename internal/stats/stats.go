// Package stats derives summary views from an in-memory transaction
// collection. Every function here is pure: no I/O, no state, inputs
// are already-filtered transaction lists.
package stats

import (
	"sort"
	"strconv"
	"strings"

	"github.com/depot-ledger/depot-ledger/internal/domain"
)

// CategoryTotal is one category's settlement line.
type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Total    float64         `json:"total"`
	Count    int             `json:"count"`
}

// Settlement is the per-category settlement summary plus grand totals.
type Settlement struct {
	Categories []CategoryTotal `json:"categories"`
	GrandTotal float64         `json:"grandTotal"`
	GrandCount int             `json:"grandCount"`
}

// SettlementTotals sums totals and counts grouped by category. Every
// category appears in the result, zero-valued when nothing matched.
func SettlementTotals(txs []domain.Transaction) Settlement {
	byCat := make(map[domain.Category]*CategoryTotal, 4)
	out := Settlement{Categories: make([]CategoryTotal, 0, 4)}

	for _, cat := range domain.Categories() {
		out.Categories = append(out.Categories, CategoryTotal{Category: cat})
		byCat[cat] = &out.Categories[len(out.Categories)-1]
	}

	for _, tx := range txs {
		line, ok := byCat[tx.Category]
		if !ok {
			continue
		}
		line.Total += tx.Total
		line.Count++
		out.GrandTotal += tx.Total
		out.GrandCount++
	}
	return out
}

// MonthAmount is one point of the monthly trend series.
type MonthAmount struct {
	Month  int     `json:"month"` // 1-12
	Amount float64 `json:"amount"`
}

// MonthlyTrend sums totals per calendar month of the given year. The
// series always has twelve entries; months without transactions report
// amount 0 rather than being absent.
func MonthlyTrend(txs []domain.Transaction, year int) []MonthAmount {
	series := make([]MonthAmount, 12)
	for i := range series {
		series[i].Month = i + 1
	}

	for _, tx := range txs {
		y, m, ok := yearMonth(tx.Date)
		if !ok || y != year {
			continue
		}
		series[m-1].Amount += tx.Total
	}
	return series
}

// Share is one machine-category slice of the spending breakdown.
type Share struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// CategoryShare groups totals by machine category, sorted by value
// descending. Transactions without a machine category fall into the
// default bucket. Percentages are computed against the overall sum and
// are all zero when that sum is zero.
func CategoryShare(txs []domain.Transaction) []Share {
	values := make(map[string]float64)
	sum := 0.0
	for _, tx := range txs {
		name := tx.MachineCategory
		if name == "" {
			name = domain.DefaultMachineCategory
		}
		values[name] += tx.Total
		sum += tx.Total
	}

	shares := make([]Share, 0, len(values))
	for name, value := range values {
		s := Share{Name: name, Value: value}
		if sum != 0 {
			s.Percent = value / sum * 100
		}
		shares = append(shares, s)
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Value != shares[j].Value {
			return shares[i].Value > shares[j].Value
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}

// RankEntry is one row of the repair leaderboard.
type RankEntry struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"` // relative to the top entry's count
}

// RepairRanking ranks REPAIR transactions by material name: occurrence
// count descending, summed total as the tie-break, truncated to the
// top ten. Each entry's percentage is its count relative to the top
// entry's count, which scales the leaderboard bars.
func RepairRanking(txs []domain.Transaction) []RankEntry {
	grouped := make(map[string]*RankEntry)
	for _, tx := range txs {
		if tx.Category != domain.CategoryRepair {
			continue
		}
		e, ok := grouped[tx.MaterialName]
		if !ok {
			e = &RankEntry{Name: tx.MaterialName}
			grouped[tx.MaterialName] = e
		}
		e.Count++
		e.Total += tx.Total
	}

	ranking := make([]RankEntry, 0, len(grouped))
	for _, e := range grouped {
		ranking = append(ranking, *e)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		if ranking[i].Total != ranking[j].Total {
			return ranking[i].Total > ranking[j].Total
		}
		return ranking[i].Name < ranking[j].Name
	})

	if len(ranking) > 10 {
		ranking = ranking[:10]
	}
	if len(ranking) > 0 && ranking[0].Count > 0 {
		top := float64(ranking[0].Count)
		for i := range ranking {
			ranking[i].Percentage = float64(ranking[i].Count) / top * 100
		}
	}
	return ranking
}

// MaterialNames returns the distinct material names matching the given
// fragment (case-insensitive substring, empty matches all), preserving
// first-seen order. The name history backs form autocompletion.
func MaterialNames(txs []domain.Transaction, fragment string) []string {
	fragment = strings.ToLower(fragment)
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, tx := range txs {
		name := tx.MaterialName
		if name == "" || seen[name] {
			continue
		}
		if fragment != "" && !strings.Contains(strings.ToLower(name), fragment) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// yearMonth splits a normalized YYYY-MM-DD date string.
func yearMonth(date string) (int, int, bool) {
	if len(date) < 7 || date[4] != '-' {
		return 0, 0, false
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(date[5:7])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, m, true
}
