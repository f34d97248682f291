package schema

import (
	"strings"

	"github.com/depot-ledger/depot-ledger/internal/domain"
)

// ResolveHeaders determines which canonical headers are missing from a
// partition's current header row. A canonical header counts as present
// when any of its aliases already heads a column, so partitions written
// under old localized schemas are never re-headered. Only appends are
// ever suggested; existing columns keep their name and position.
// Idempotent: running it against headers that already include its own
// output yields nothing.
func ResolveHeaders(existing []string, cat domain.Category) []string {
	present := make(map[string]bool, len(existing))
	for _, h := range existing {
		if f, ok := fieldForHeader(h); ok {
			present[f.Canonical] = true
		}
	}

	var missing []string
	for _, f := range Fields {
		if !present[f.Canonical] {
			missing = append(missing, f.Canonical)
		}
	}
	return missing
}

// ProjectRow shapes a raw payload into one positional store row,
// following the partition's current header order. For every header:
//
//   - financial headers take the derivation engine's value, never the
//     payload's;
//   - headers whose field does not apply to cat emit the empty string;
//   - otherwise the field's aliases are scanned in priority order and
//     the first one present in the payload wins, coerced per its kind;
//   - a header matching no field at all falls back to the id or the
//     category when its text is "id"/"type" in any case, else emits
//     the empty string.
//
// The output length always equals len(headers).
func ProjectRow(headers []string, cat domain.Category, payload map[string]any, id string) []any {
	fin := DeriveFinancials(payload)

	values := make([]any, len(headers))
	for i, h := range headers {
		f, ok := fieldForHeader(h)
		if !ok {
			switch strings.ToLower(h) {
			case "id":
				values[i] = id
			case "type":
				values[i] = string(cat)
			default:
				values[i] = ""
			}
			continue
		}

		switch f.Canonical {
		case "id":
			values[i] = id
			continue
		case "type":
			values[i] = string(cat)
			continue
		case "quantity":
			values[i] = fin.Quantity
			continue
		case "unitPrice":
			values[i] = fin.UnitPrice
			continue
		case "total":
			values[i] = fin.Total
			continue
		}

		if !f.AppliesTo(cat) {
			values[i] = ""
			continue
		}

		raw, found := lookupRaw(payload, f.Canonical)
		switch f.Kind {
		case KindBool:
			values[i] = found && ParseBool(raw)
		case KindDate:
			if found {
				values[i] = NormalizeDate(raw)
			} else {
				values[i] = ""
			}
		default:
			if found {
				values[i] = toString(raw)
			} else {
				values[i] = ""
			}
		}
	}
	return values
}
