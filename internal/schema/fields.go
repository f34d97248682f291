// Package schema maps heterogeneous, historically inconsistent row
// headers onto the canonical transaction field set and derives the
// authoritative financial values. Both the write projection and the
// read reconstruction consult the same alias table so the two paths
// stay symmetric.
package schema

import (
	"strings"

	"github.com/depot-ledger/depot-ledger/internal/domain"
)

// Kind describes how a field's raw value is coerced.
type Kind int

const (
	KindText Kind = iota
	KindFinancial // substituted by the derivation engine, never taken from the payload
	KindBool
	KindDate
)

// Field is one canonical transaction field. Aliases are listed in
// priority order with the canonical header first; when a payload or a
// stored row carries several aliases of the same field, the first
// declared alias wins.
type Field struct {
	Canonical string
	Aliases   []string
	Kind      Kind
	// Only restricts the field to a subset of categories. Empty means
	// the field applies to every category. Values for non-applicable
	// categories are blanked during projection and ignored on read.
	Only []domain.Category
}

// AppliesTo reports whether the field is meaningful for cat.
func (f Field) AppliesTo(cat domain.Category) bool {
	if len(f.Only) == 0 {
		return true
	}
	for _, c := range f.Only {
		if c == cat {
			return true
		}
	}
	return false
}

var repairOnly = []domain.Category{domain.CategoryRepair}

var nonRepair = []domain.Category{
	domain.CategoryInbound,
	domain.CategoryUsage,
	domain.CategoryConstruction,
}

// Fields is the canonical schema, in partition column order. New
// partitions are created with exactly these headers; existing
// partitions only ever have missing ones appended.
var Fields = []Field{
	{Canonical: "id", Aliases: []string{"id", "ID"}},
	{Canonical: "type", Aliases: []string{"type", "category", "類別", "分類"}},
	{Canonical: "date", Aliases: []string{"date", "日期"}, Kind: KindDate},
	{Canonical: "accountCategory", Aliases: []string{"accountCategory", "帳務類別", "帳類"}, Only: nonRepair},
	{Canonical: "materialName", Aliases: []string{"materialName", "材料名稱", "品名", "name"}},
	{Canonical: "materialNumber", Aliases: []string{"materialNumber", "材料編號", "料號", "number"}},
	{Canonical: "machineCategory", Aliases: []string{"machineCategory", "機台類別", "機種"}},
	{Canonical: "machineNumber", Aliases: []string{"machineNumber", "機台編號", "機號"}},
	{Canonical: "serialNumber", Aliases: []string{"serialNumber", "序號", "serial"}, Only: repairOnly},
	{Canonical: "quantity", Aliases: []string{"quantity", "數量", "qty"}, Kind: KindFinancial},
	{Canonical: "unitPrice", Aliases: []string{"unitPrice", "單價", "price"}, Kind: KindFinancial},
	{Canonical: "total", Aliases: []string{"total", "總價", "金額", "amount"}, Kind: KindFinancial},
	{Canonical: "note", Aliases: []string{"note", "備註", "remark"}},
	{Canonical: "operator", Aliases: []string{"operator", "操作人", "user"}},
	{Canonical: "faultReason", Aliases: []string{"faultReason", "故障原因"}, Only: repairOnly},
	{Canonical: "isScrapped", Aliases: []string{"isScrapped", "是否報廢", "scrapped"}, Kind: KindBool, Only: repairOnly},
	{Canonical: "isReceived", Aliases: []string{"isReceived", "是否收到", "received"}, Kind: KindBool, Only: []domain.Category{domain.CategoryInbound}},
	{Canonical: "sentDate", Aliases: []string{"sentDate", "寄出日期", "送修日期"}, Kind: KindDate, Only: repairOnly},
	{Canonical: "repairDate", Aliases: []string{"repairDate", "維修完成日期", "維修日期"}, Kind: KindDate, Only: repairOnly},
	{Canonical: "installDate", Aliases: []string{"installDate", "安裝日期"}, Kind: KindDate, Only: repairOnly},
}

// CanonicalHeaders returns the full canonical header list in column order.
func CanonicalHeaders() []string {
	headers := make([]string, len(Fields))
	for i, f := range Fields {
		headers[i] = f.Canonical
	}
	return headers
}

// fieldForHeader resolves a raw header string to its field definition,
// matching the canonical name or any alias exactly. The id and type
// headers additionally match case-insensitively: row 1 of very old
// partitions carries hand-typed variants of those two.
func fieldForHeader(header string) (Field, bool) {
	for _, f := range Fields {
		for _, a := range f.Aliases {
			if header == a {
				return f, true
			}
		}
	}
	switch strings.ToLower(header) {
	case "id":
		return Fields[0], true
	case "type":
		return Fields[1], true
	}
	return Field{}, false
}

// lookupRaw finds the value for a canonical field in a raw key-value
// bag, scanning the field's aliases in declared priority order. The
// first alias present and non-nil wins.
func lookupRaw(bag map[string]any, canonical string) (any, bool) {
	for _, f := range Fields {
		if f.Canonical != canonical {
			continue
		}
		for _, a := range f.Aliases {
			if v, ok := bag[a]; ok && v != nil {
				return v, true
			}
		}
		return nil, false
	}
	return nil, false
}
