// Package rules maps request URLs to template names.
//
// A RuleSet is an ordered list of named rules, each carrying URL patterns.
// Resolution walks the rules from the last declared to the first and, within a
// rule, its patterns in declaration order; the first pattern that matches the
// whole URL selects the rule. Declaring a rule later therefore gives it
// priority, regardless of how specific its patterns are.
//
// Patterns use the Perl-compatible dialect of github.com/dlclark/regexp2 and
// are implicitly anchored at both ends of the URL.
package rules
