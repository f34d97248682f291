package schema

import (
	"reflect"
	"testing"

	"github.com/depot-ledger/depot-ledger/internal/domain"
)

func TestResolveHeadersFreshPartition(t *testing.T) {
	missing := ResolveHeaders(nil, domain.CategoryInbound)
	if !reflect.DeepEqual(missing, CanonicalHeaders()) {
		t.Errorf("fresh partition should need every canonical header, got %v", missing)
	}
}

func TestResolveHeadersAliasedLegacyColumns(t *testing.T) {
	// An old sheet headed by localized names: those columns count as
	// present and must never be re-headered or duplicated.
	existing := []string{"id", "類別", "日期", "材料名稱", "數量", "單價", "總價"}
	missing := ResolveHeaders(existing, domain.CategoryUsage)

	for _, h := range missing {
		switch h {
		case "type", "date", "materialName", "quantity", "unitPrice", "total":
			t.Errorf("header %q already present under an alias, must not be appended", h)
		}
	}
	found := false
	for _, h := range missing {
		if h == "note" {
			found = true
		}
	}
	if !found {
		t.Error("genuinely missing header note not reported")
	}
}

func TestResolveHeadersIdempotent(t *testing.T) {
	existing := []string{"日期", "材料名稱"}
	first := ResolveHeaders(existing, domain.CategoryRepair)
	after := append(append([]string{}, existing...), first...)
	second := ResolveHeaders(after, domain.CategoryRepair)
	if len(second) != 0 {
		t.Errorf("second resolution should be empty, got %v", second)
	}
}

func TestProjectRowLengthMatchesHeaders(t *testing.T) {
	headers := []string{"id", "type", "date", "materialName", "quantity", "unitPrice", "total", "unknownColumn"}
	row := ProjectRow(headers, domain.CategoryInbound, map[string]any{"materialName": "bearing"}, "tx-1")
	if len(row) != len(headers) {
		t.Fatalf("row length = %d, want %d", len(row), len(headers))
	}
	if row[len(row)-1] != "" {
		t.Errorf("unknown column = %v, want empty string", row[len(row)-1])
	}
}

func TestProjectRowFinancialSubstitution(t *testing.T) {
	headers := []string{"quantity", "unitPrice", "total"}
	payload := map[string]any{"quantity": 3, "unitPrice": 10.0, "total": 123456.0}
	row := ProjectRow(headers, domain.CategoryUsage, payload, "tx-1")

	if row[0] != 3 {
		t.Errorf("quantity = %v, want 3", row[0])
	}
	if row[1] != 10.0 {
		t.Errorf("unitPrice = %v, want 10", row[1])
	}
	if row[2] != 30.0 {
		t.Errorf("total = %v, want derived 30, caller value must be discarded", row[2])
	}
}

func TestProjectRowCategorySuppression(t *testing.T) {
	headers := []string{"accountCategory", "serialNumber", "faultReason", "sentDate", "repairDate", "installDate", "isScrapped", "isReceived"}
	payload := map[string]any{
		"accountCategory": "B",
		"serialNumber":    "SN-1",
		"faultReason":     "burnt",
		"sentDate":        "2024-01-01",
		"repairDate":      "2024-01-05",
		"installDate":     "2024-01-06",
		"isScrapped":      true,
		"isReceived":      true,
	}

	t.Run("non-repair blanks repair-only fields", func(t *testing.T) {
		row := ProjectRow(headers, domain.CategoryInbound, payload, "tx-1")
		if row[0] != "B" {
			t.Errorf("accountCategory = %v, want B", row[0])
		}
		for i := 1; i <= 5; i++ {
			if row[i] != "" {
				t.Errorf("repair-only header %s = %v, want empty", headers[i], row[i])
			}
		}
		if row[6] != "" {
			t.Errorf("isScrapped = %v, want empty for non-repair", row[6])
		}
		if row[7] != true {
			t.Errorf("isReceived = %v, want true for inbound", row[7])
		}
	})

	t.Run("repair blanks accountCategory and isReceived", func(t *testing.T) {
		row := ProjectRow(headers, domain.CategoryRepair, payload, "tx-1")
		if row[0] != "" {
			t.Errorf("accountCategory = %v, want empty for repair", row[0])
		}
		if row[1] != "SN-1" || row[2] != "burnt" {
			t.Errorf("repair fields lost: %v %v", row[1], row[2])
		}
		if row[6] != true {
			t.Errorf("isScrapped = %v, want true", row[6])
		}
		if row[7] != "" {
			t.Errorf("isReceived = %v, want empty for repair", row[7])
		}
	})

	t.Run("usage blanks isReceived", func(t *testing.T) {
		row := ProjectRow(headers, domain.CategoryUsage, payload, "tx-1")
		if row[7] != "" {
			t.Errorf("isReceived = %v, want empty for usage", row[7])
		}
	})
}

func TestProjectRowAliasPriority(t *testing.T) {
	headers := []string{"materialName"}
	payload := map[string]any{
		"品名":           "legacy name",
		"materialName": "canonical name",
		"name":         "oldest name",
	}
	row := ProjectRow(headers, domain.CategoryInbound, payload, "tx-1")
	if row[0] != "canonical name" {
		t.Errorf("materialName = %v, want first-declared alias to win", row[0])
	}

	// Without the canonical key, the next declared alias wins.
	delete(payload, "materialName")
	row = ProjectRow(headers, domain.CategoryInbound, payload, "tx-1")
	if row[0] != "legacy name" {
		t.Errorf("materialName = %v, want declared priority order", row[0])
	}
}

func TestProjectRowIDTypeFallback(t *testing.T) {
	// Hand-typed header variants of id/type still receive their values.
	headers := []string{"Id", "TYPE"}
	row := ProjectRow(headers, domain.CategoryConstruction, map[string]any{}, "tx-9")
	if row[0] != "tx-9" {
		t.Errorf("Id column = %v, want tx-9", row[0])
	}
	if row[1] != string(domain.CategoryConstruction) {
		t.Errorf("TYPE column = %v, want %s", row[1], domain.CategoryConstruction)
	}
}

func TestProjectRowLegacyHeadersReceiveValues(t *testing.T) {
	headers := []string{"日期", "材料名稱", "數量", "單價", "總價"}
	payload := map[string]any{"date": "2024-03-01", "materialName": "belt", "quantity": 2, "unitPrice": 5.0}
	row := ProjectRow(headers, domain.CategoryUsage, payload, "tx-1")

	want := []any{"2024-03-01", "belt", 2, 5.0, 10.0}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("row = %v, want %v", row, want)
	}
}
