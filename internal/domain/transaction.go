package domain

// Default values applied when a stored row predates the field or the
// client simply left it blank.
const (
	DefaultAccountCategory = "A"
	DefaultMachineCategory = "未分類"
	DefaultOperator        = "系統"

	// ScrapMarker is prefixed onto the note of a scrapped repair record.
	ScrapMarker = "[報廢]"
)

// Transaction is one normalized settlement ledger record. This is the
// canonical typed form; raw store rows may carry any historical alias
// for these fields and are reconstructed through the schema package.
type Transaction struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"` // civil date, YYYY-MM-DD, Asia/Taipei
	Category Category `json:"type"`

	AccountCategory string `json:"accountCategory"` // empty for REPAIR
	MaterialName    string `json:"materialName"`
	MaterialNumber  string `json:"materialNumber"`
	MachineCategory string `json:"machineCategory"`
	MachineNumber   string `json:"machineNumber"`
	SerialNumber    string `json:"serialNumber"` // REPAIR only

	Quantity  int     `json:"quantity"`  // at least 1
	UnitPrice float64 `json:"unitPrice"` // forced 0 when scrapped
	Total     float64 `json:"total"`     // always Quantity * UnitPrice

	Note     string `json:"note"`
	Operator string `json:"operator"` // overwritten with session user on write

	FaultReason string `json:"faultReason"` // REPAIR only
	IsScrapped  bool   `json:"isScrapped"`  // REPAIR only
	IsReceived  bool   `json:"isReceived"`  // INBOUND only

	SentDate    string `json:"sentDate"`    // REPAIR only
	RepairDate  string `json:"repairDate"`  // REPAIR only
	InstallDate string `json:"installDate"` // REPAIR only
}
