package schema

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// The store has no timezone; all dates are normalized to this one
// civil zone before storage so date-range filters can compare the
// YYYY-MM-DD strings lexicographically.
var ledgerZone = loadLedgerZone()

func loadLedgerZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

// dateLayouts are the formats observed in historical rows: ISO dates,
// slash dates, and full timestamps written by older clients.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// NormalizeDate coerces a raw date-like value to a fixed-zone civil
// date string (YYYY-MM-DD). Malformed input yields the empty string;
// a bad date is never an error, per the permissiveness policy.
func NormalizeDate(v any) string {
	switch val := v.(type) {
	case time.Time:
		return civil.DateOf(val.In(ledgerZone)).String()
	case civil.Date:
		return val.String()
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return ""
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, ledgerZone); err == nil {
				return civil.DateOf(t.In(ledgerZone)).String()
			}
		}
		return ""
	default:
		return ""
	}
}

// ParseBool is the tolerant boolean decoder for scrap/receipt flags.
// Accepted truthy encodings: true, 1, "1", "true" (any case), "yes"
// (any case), and the localized "是". Everything else is false.
func ParseBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val == 1
	case int:
		return val == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes", "是":
			return true
		}
	}
	return false
}

// toNumber coerces a raw cell value to a float64. Strings may carry
// thousands separators from sheet formatting.
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toString renders a raw cell value for storage. Numbers keep their
// shortest representation; nil becomes the empty string.
func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
