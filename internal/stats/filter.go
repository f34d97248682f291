package stats

import (
	"strings"

	"github.com/depot-ledger/depot-ledger/internal/domain"
)

// Query is the filter applied before aggregation. Date bounds are
// inclusive civil-date strings (YYYY-MM-DD); comparing them
// lexicographically is valid only because dates are normalized to that
// fixed format upstream.
type Query struct {
	From     string
	To       string
	Category domain.Category // empty matches every category
	Keyword  string
}

// Filter returns the transactions matching q, preserving order.
func Filter(txs []domain.Transaction, q Query) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !matches(tx, q) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func matches(tx domain.Transaction, q Query) bool {
	if q.Category != "" && tx.Category != q.Category {
		return false
	}
	if q.From != "" && tx.Date < q.From {
		return false
	}
	if q.To != "" && tx.Date > q.To {
		return false
	}
	if q.Keyword != "" {
		needle := strings.ToLower(q.Keyword)
		haystacks := []string{
			tx.MaterialName, tx.MaterialNumber,
			tx.MachineCategory, tx.MachineNumber,
			tx.Note, tx.Operator,
		}
		found := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
