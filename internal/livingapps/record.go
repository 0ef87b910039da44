package livingapps

import (
	"regexp"
	"strings"
	"time"
)

// Record is one entry of a LivingApps app. Fields are kept exactly as the
// gateway delivered them.
type Record struct {
	RecordID  string         `json:"record_id"`
	Fields    map[string]any `json:"fields"`
	CreatedAt *time.Time     `json:"createdat,omitempty"`
	UpdatedAt *time.Time     `json:"updatedat,omitempty"`
}

// String returns the field as a string or "" when it is absent.
func (r Record) String(name string) string {
	if r.Fields == nil {
		return ""
	}
	s, _ := r.Fields[name].(string)
	return s
}

var recordIDPattern = regexp.MustCompile(`(?i)([a-f0-9]{24})$`)

// BuildReference encodes a link to recordID in appID the way the gateway
// stores lookup fields.
func BuildReference(baseURL, appID, recordID string) string {
	return strings.TrimRight(baseURL, "/") + "/apps/" + appID + "/records/" + recordID
}

// ExtractRecordID returns the record id embedded in a reference string, or ""
// if there is none.
func ExtractRecordID(ref string) string {
	m := recordIDPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return ""
	}
	return m[1]
}
