package replay

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultCases exercise each answer path without assuming specific data.
var DefaultCases = []Case{
	{Question: "How many goals has the club scored this season?", ExpectMetric: "goals"},
	{Question: "Who has scored the most goals?", ExpectMetric: "goals"},
	{Question: "How many goals have I scored?", ExpectOutcome: "no_user_context"},
	{Question: "How many goals has Zzqxw Vrtpk scored?", ExpectOutcome: "player_not_found"},
	{Question: "Tell me something", ExpectOutcome: "fallback"},
}

// LoadCases reads cases from the "cases" list of a YAML file:
//
//	cases:
//	  - question: How many goals has Luke Bangs scored?
//	    expect_metric: goals
//	    expect_contains: [Luke Bangs]
func LoadCases(path string) ([]Case, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCases, path, err)
	}
	var cases []Case
	if err := k.UnmarshalWithConf("cases", &cases, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCases, path, err)
	}
	out := cases[:0]
	for _, c := range cases {
		if strings.TrimSpace(c.Question) != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCases, path)
	}
	return out, nil
}

// check compares an answer against the case expectations.
func check(c Case, r *Result) {
	if r.Status != StatusOK {
		r.Problems = append(r.Problems, fmt.Sprintf("status %d", r.Status))
	}
	if c.ExpectOutcome != "" && r.Outcome != c.ExpectOutcome {
		r.Problems = append(r.Problems, fmt.Sprintf("outcome %q, want %q", r.Outcome, c.ExpectOutcome))
	}
	if c.ExpectMetric != "" && r.Metric != c.ExpectMetric {
		r.Problems = append(r.Problems, fmt.Sprintf("metric %q, want %q", r.Metric, c.ExpectMetric))
	}
	for _, want := range c.ExpectContain {
		if !strings.Contains(r.Answer, want) {
			r.Problems = append(r.Problems, fmt.Sprintf("answer lacks %q", want))
		}
	}
	r.Passed = len(r.Problems) == 0
}
