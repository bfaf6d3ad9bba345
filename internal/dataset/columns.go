package dataset

import "strings"

// Ledger column keys after header normalization.
const (
	colDate         = "tran_dt"
	colLocationID   = "lctn_id"
	colLocationName = "child_lctn_dba_nm"
	colOrgName      = "grandparent_corp_dba_nm"
	colRepName      = "rep_name"
	colCity         = "city_nm"
	colLatitude     = "latitude"
	colLongitude    = "longitude"
	colAddress      = "preprocessed_address"
	colAmount       = "tran_am"
)

var requiredColumns = []string{colDate, colLocationID, colRepName, colAmount}

var ledgerColumns = []string{
	colDate, colLocationID, colLocationName, colOrgName, colRepName,
	colCity, colLatitude, colLongitude, colAddress, colAmount,
}

// normalizeHeader maps "REP NAME", "Rep-Name" and "rep_name" to the same key.
func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(value)
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

func missingColumns(index map[string]int, required []string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func getValue(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
