package rules

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

type compiledRule struct {
	rule     Rule
	patterns []*regexp2.Regexp
}

// RuleSet is an immutable, ordered set of compiled rules. The zero value is an
// empty set that matches nothing.
type RuleSet struct {
	rules []compiledRule
}

// New compiles rules in declaration order. Any pattern that fails to compile
// yields an error wrapping ErrInvalidConfig.
func New(rules ...Rule) (*RuleSet, error) {
	set := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		compiled := compiledRule{
			rule: Rule{
				Name: rule.Name,
				URLs: append([]string(nil), rule.URLs...),
			},
			patterns: make([]*regexp2.Regexp, 0, len(rule.URLs)),
		}
		for _, pattern := range rule.URLs {
			re, err := compilePattern(pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %d (%q) pattern %q: %v", ErrInvalidConfig, i, rule.Name, pattern, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		set.rules = append(set.rules, compiled)
	}
	return set, nil
}

// MustNew is like New but panics when a pattern does not compile.
func MustNew(rules ...Rule) *RuleSet {
	set, err := New(rules...)
	if err != nil {
		panic(err)
	}
	return set
}

func compilePattern(pattern string) (*regexp2.Regexp, error) {
	return regexp2.Compile("^(?:"+pattern+")$", regexp2.None)
}

// Len reports the number of rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns a copy of the rules in declaration order.
func (s *RuleSet) Rules() []Rule {
	if s == nil {
		return nil
	}
	out := make([]Rule, 0, len(s.rules))
	for _, compiled := range s.rules {
		out = append(out, Rule{
			Name: compiled.rule.Name,
			URLs: append([]string(nil), compiled.rule.URLs...),
		})
	}
	return out
}

// Match finds the rule selecting url. Rules are visited last-declared first
// and the first matching pattern ends the search.
func (s *RuleSet) Match(url string) (Match, bool) {
	if s == nil {
		return Match{}, false
	}
	for i := len(s.rules) - 1; i >= 0; i-- {
		compiled := s.rules[i]
		for j, re := range compiled.patterns {
			// regexp2 only reports errors on match timeouts, which are not set.
			ok, err := re.MatchString(url)
			if err != nil || !ok {
				continue
			}
			return Match{
				Name:    compiled.rule.Name,
				Pattern: compiled.rule.URLs[j],
				Index:   i,
			}, true
		}
	}
	return Match{}, false
}

// Resolve returns the template name selected by url, or "" when no rule
// matches.
func (s *RuleSet) Resolve(url string) string {
	match, _ := s.Match(url)
	return match.Name
}
