package schema

import (
	"strings"

	"github.com/depot-ledger/depot-ledger/internal/domain"
)

// Reconstruct rebuilds a typed Transaction from one raw store row,
// resolving aliases with the same priority the write projection uses,
// re-deriving the financial fields, and applying category-aware
// defaults for columns that predate the canonical schema. The store
// itself is untyped, so every coercion here is permissive: malformed
// values become documented defaults, never errors.
//
// The second return is false when the row cannot be treated as a
// transaction at all (no id); callers skip such rows.
func Reconstruct(row map[string]any, cat domain.Category) (domain.Transaction, bool) {
	id := strings.TrimSpace(rawString(row, "id"))
	if id == "" {
		return domain.Transaction{}, false
	}

	fin := DeriveFinancials(row)

	tx := domain.Transaction{
		ID:        id,
		Date:      NormalizeDate(rawOrNil(row, "date")),
		Category:  cat,
		Quantity:  fin.Quantity,
		UnitPrice: fin.UnitPrice,
		Total:     fin.Total,

		MaterialName:    rawString(row, "materialName"),
		MaterialNumber:  rawString(row, "materialNumber"),
		MachineCategory: rawString(row, "machineCategory"),
		MachineNumber:   rawString(row, "machineNumber"),
		Note:            rawString(row, "note"),
		Operator:        rawString(row, "operator"),
	}

	if tx.MachineCategory == "" {
		tx.MachineCategory = domain.DefaultMachineCategory
	}
	if tx.Operator == "" {
		tx.Operator = domain.DefaultOperator
	}

	if cat != domain.CategoryRepair {
		tx.AccountCategory = rawString(row, "accountCategory")
		if tx.AccountCategory == "" {
			tx.AccountCategory = domain.DefaultAccountCategory
		}
	}

	if cat == domain.CategoryInbound {
		tx.IsReceived = ParseBool(rawOrNil(row, "isReceived"))
	}

	if cat == domain.CategoryRepair {
		tx.SerialNumber = rawString(row, "serialNumber")
		tx.FaultReason = rawString(row, "faultReason")
		tx.IsScrapped = ParseBool(rawOrNil(row, "isScrapped"))
		tx.SentDate = NormalizeDate(rawOrNil(row, "sentDate"))
		tx.RepairDate = NormalizeDate(rawOrNil(row, "repairDate"))
		tx.InstallDate = NormalizeDate(rawOrNil(row, "installDate"))
		if tx.IsScrapped {
			tx.UnitPrice = 0
			tx.Total = 0
		}
	}

	return tx, true
}

// rawString resolves a canonical field from a raw row and renders it
// as a trimmed string. The id field additionally matches row keys
// case-insensitively, mirroring the header fallback on the write path.
func rawString(row map[string]any, canonical string) string {
	if v, ok := lookupRaw(row, canonical); ok {
		return strings.TrimSpace(toString(v))
	}
	if canonical == "id" || canonical == "type" {
		for k, v := range row {
			if strings.EqualFold(k, canonical) && v != nil {
				return strings.TrimSpace(toString(v))
			}
		}
	}
	return ""
}

// RawID extracts the id recorded in a raw row or payload, using the
// same alias and case-insensitive matching as reconstruction. Empty
// when the bag carries no id.
func RawID(bag map[string]any) string {
	return rawString(bag, "id")
}

// CategoryOfRow resolves the category recorded in a raw row, falling
// back to the partition's own category when the type column is absent
// or unparseable.
func CategoryOfRow(row map[string]any, fallback domain.Category) domain.Category {
	raw := rawString(row, "type")
	if raw == "" {
		return fallback
	}
	if cat, ok := domain.ParseCategory(raw); ok {
		return cat
	}
	return fallback
}
