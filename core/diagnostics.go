package core

import "fmt"

// The completion-information table names its columns differently per wire
// variant: v2 uses Level/Payload/ClientRequestId, v1 uses
// Severity/StatusDescription/ClientActivityId.
var (
	severityColumns = []string{"Level", "Severity"}
	payloadColumns  = []string{"Payload", "StatusDescription"}
	requestColumns  = []string{"ClientRequestId", "ClientActivityId"}
)

// Severity values below this are error-level diagnostics.
const errorSeverityCeiling = 4

// diagnosticFromRow inspects one completion-information row and returns
// an exception message if the row is flagged at error severity.
func diagnosticFromRow(row Row) (string, bool) {
	severity, ok := intField(row, severityColumns)
	if !ok || severity >= errorSeverityCeiling {
		return "", false
	}
	payload, _ := stringField(row, payloadColumns)
	requestID, _ := stringField(row, requestColumns)
	return fmt.Sprintf("query diagnostic (client request id %q): %s", requestID, payload), true
}

func intField(row Row, names []string) (int64, bool) {
	for _, name := range names {
		v, err := row.ValueByName(name)
		if err != nil {
			continue
		}
		switch n := v.(type) {
		case int32:
			return int64(n), true
		case int64:
			return n, true
		}
	}
	return 0, false
}

func stringField(row Row, names []string) (string, bool) {
	for _, name := range names {
		v, err := row.ValueByName(name)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}
