package importer

import "strings"

// Record is one data row whose cells line up with the schema columns.
type Record struct {
	RowNumber int
	Values    []string
}

func (r Record) isEmpty() bool {
	for _, value := range r.Values {
		if !isBlank(value) {
			return false
		}
	}
	return true
}

func (r Record) isPartial() bool {
	empty := 0
	for _, value := range r.Values {
		if isBlank(value) {
			empty++
		}
	}
	return empty > 0 && empty < len(r.Values)
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
