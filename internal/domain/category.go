package domain

// Category identifies which settlement ledger a transaction belongs to.
// Each category maps to one partition (sheet tab) in the external store.
type Category string

const (
	CategoryInbound      Category = "INBOUND"
	CategoryUsage        Category = "USAGE"
	CategoryConstruction Category = "CONSTRUCTION"
	CategoryRepair       Category = "REPAIR"
)

// partitionTitles are the original spreadsheet tab names. Existing
// deployments already have data under these titles, so they are kept
// as the partition keys rather than the enum names.
var partitionTitles = map[Category]string{
	CategoryInbound:      "入庫",
	CategoryUsage:        "領用",
	CategoryConstruction: "工程",
	CategoryRepair:       "維修",
}

// Categories returns all ledger categories in their canonical order.
func Categories() []Category {
	return []Category{CategoryInbound, CategoryUsage, CategoryConstruction, CategoryRepair}
}

// Valid reports whether c is one of the four ledger categories.
func (c Category) Valid() bool {
	_, ok := partitionTitles[c]
	return ok
}

// PartitionTitle returns the store partition name for the category.
func (c Category) PartitionTitle() string {
	return partitionTitles[c]
}

// ParseCategory resolves a raw category value. It accepts both the
// enum name (historical API payloads) and the localized partition
// title (values read back from old sheet rows).
func ParseCategory(raw string) (Category, bool) {
	c := Category(raw)
	if c.Valid() {
		return c, true
	}
	for cat, title := range partitionTitles {
		if raw == title {
			return cat, true
		}
	}
	return "", false
}
