package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult contains the result of an injection check on a
// positional parameter value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamIndex  int    // Position of the parameter that failed the check
	ParamValue  any    // The value that was checked
}

// CheckParameterForInjection uses libinjection to detect SQL injection
// patterns in a parameter value. Only string values are checked - numbers,
// booleans, and other types cannot carry injection payloads and return nil.
func CheckParameterForInjection(index int, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			ParamIndex:  index,
			ParamValue:  value,
		}
	}

	return nil
}

// CheckAllParameters validates all positional parameter values for SQL
// injection attempts. Returns a result for each parameter that failed;
// empty slice if all are clean.
func CheckAllParameters(params []any) []*InjectionCheckResult {
	results := make([]*InjectionCheckResult, 0)
	for i, value := range params {
		if r := CheckParameterForInjection(i, value); r != nil {
			results = append(results, r)
		}
	}
	return results
}
