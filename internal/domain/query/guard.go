package query

import (
	"fmt"
	"slices"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/okian/clubstats/pkg/metrics"
)

// Violation describes a parameter that looks like an injection attempt.
type Violation struct {
	Param       string
	Fingerprint string
}

// CheckParameter scans string values (and string slices) with libinjection.
// Other types cannot carry an injection and pass.
func CheckParameter(name string, value any) *Violation {
	var values []string
	switch v := value.(type) {
	case string:
		values = []string{v}
	case []string:
		values = v
	default:
		return nil
	}
	for _, s := range values {
		if isSQLi, fp := libinjection.IsSQLi(s); isSQLi {
			return &Violation{Param: name, Fingerprint: string(fp)}
		}
	}
	return nil
}

// CheckAllParameters returns every violating parameter, sorted by name.
func CheckAllParameters(params map[string]any) []Violation {
	var out []Violation
	for name, value := range params {
		if v := CheckParameter(name, value); v != nil {
			out = append(out, *v)
		}
	}
	slices.SortFunc(out, func(a, b Violation) int { return strings.Compare(a.Param, b.Param) })
	return out
}

// freeText lists the parameters that carry text taken from the question.
// Seasons, dates and limits are produced by this package and are not screened.
var freeText = []string{"playerName", "opposition"}

// Guard rejects a query whose free text parameters fail CheckParameter.
func Guard(q Query) error {
	screened := make(map[string]any, len(freeText))
	for _, name := range freeText {
		if v, ok := q.Params[name]; ok {
			screened[name] = v
		}
	}
	violations := CheckAllParameters(screened)
	if len(violations) == 0 {
		return nil
	}
	metrics.RecordUnsafeParameter()
	names := make([]string, len(violations))
	for i, v := range violations {
		names[i] = v.Param
	}
	return fmt.Errorf("%w: %s", ErrUnsafeParameter, strings.Join(names, ", "))
}
