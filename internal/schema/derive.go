package schema

import (
	"strings"

	"github.com/depot-ledger/depot-ledger/internal/domain"
)

// Financials is the authoritative quantity/price/total triple. It is
// always recomputed server-side; a total supplied by a caller is
// discarded unconditionally.
type Financials struct {
	Quantity  int
	UnitPrice float64
	Total     float64
}

// DeriveFinancials computes the single source of truth for the three
// financial fields from a raw payload, resolving aliases the same way
// the normalizer does.
//
// A quantity that is absent, non-numeric, or zero becomes 1. Treating
// an explicit 0 as absent is long-standing behavior the stored data
// relies on ("a transaction moves at least one unit"); do not change
// it without clearing up product intent first.
func DeriveFinancials(payload map[string]any) Financials {
	quantity := 1
	if n, ok := toNumber(rawOrNil(payload, "quantity")); ok && int(n) != 0 {
		quantity = int(n)
	}

	unitPrice := 0.0
	if n, ok := toNumber(rawOrNil(payload, "unitPrice")); ok {
		unitPrice = n
	}

	return Financials{
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     float64(quantity) * unitPrice,
	}
}

func rawOrNil(bag map[string]any, canonical string) any {
	v, ok := lookupRaw(bag, canonical)
	if !ok {
		return nil
	}
	return v
}

// ApplyScrap enforces the repair write-off rule on a raw payload
// before projection: the unit price drops to zero (the total follows
// through re-derivation), the repair and install dates are cleared,
// and the note gains the scrap marker prefix. The canonical keys are
// written directly, so they win alias priority over whatever the
// caller supplied. Idempotent: scrapping twice never doubles the
// marker. No-op unless the record is a REPAIR marked scrapped.
func ApplyScrap(cat domain.Category, payload map[string]any) {
	if cat != domain.CategoryRepair || !ParseBool(rawOrNil(payload, "isScrapped")) {
		return
	}
	payload["unitPrice"] = 0
	payload["repairDate"] = ""
	payload["installDate"] = ""

	note := toString(rawOrNil(payload, "note"))
	if !strings.HasPrefix(note, domain.ScrapMarker) {
		if note == "" {
			note = domain.ScrapMarker
		} else {
			note = domain.ScrapMarker + " " + note
		}
	}
	payload["note"] = note
}
