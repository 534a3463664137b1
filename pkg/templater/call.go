package templater

import (
	"io"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-pagetemplate/pkg/render/template/pongo"
)

var loadMethodPattern = regexp2.MustCompile(`load(?<type>.*?)Template`, regexp2.None)

// CanonicalType converts a type tag to lower camel case: words separated by
// '-', '_' or spaces are joined with their first letter upper-cased, then the
// first letter of the result is lower-cased. "Header" becomes "header",
// "WhateverType" becomes "whateverType" and "pass_value" becomes "passValue".
func CanonicalType(typ string) string {
	words := strings.FieldsFunc(typ, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	for _, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(word[size:])
	}

	studly := b.String()
	first, size := utf8.DecodeRuneInString(studly)
	return string(unicode.ToLower(first)) + studly[size:]
}

// TypeFromMethod extracts the type tag from a load{Type}Template method name.
func TypeFromMethod(method string) (string, bool) {
	return extractType(loadMethodPattern, method)
}

func extractType(pattern *regexp2.Regexp, method string) (string, bool) {
	m, err := pattern.FindStringMatch(method)
	if err != nil || m == nil {
		return "", false
	}
	return m.GroupByName("type").String(), true
}

// Call dispatches a load{Type}Template call: the type is taken from method,
// the optional first argument is the template name and the optional second
// argument the values map. Malformed calls return ErrUsage without touching
// the filesystem.
func (l *Loader) Call(w io.Writer, method string, args ...any) error {
	typ, ok := TypeFromMethod(method)
	if !ok {
		return usageErrorf("method does not exist or does not match pattern 'load{Type}Template', found: %s", method)
	}
	if len(args) > 2 {
		return usageErrorf("expected 0, 1 or 2 arguments, got %d", len(args))
	}

	var name string
	if len(args) > 0 && args[0] != nil {
		s, ok := args[0].(string)
		if !ok {
			return usageErrorf("expected argument 1 to be a string, got %T", args[0])
		}
		name = s
	}

	var values map[string]any
	if len(args) > 1 {
		v, err := ValuesArg(2, args[1])
		if err != nil {
			return err
		}
		values = v
	}

	return l.Load(w, name, typ, values)
}

// ValuesArg checks that a positional argument holds a values map. Any map
// with string keys is accepted and copied into a map[string]any; nil yields an
// empty map.
func ValuesArg(position int, arg any) (map[string]any, error) {
	if arg == nil {
		return map[string]any{}, nil
	}
	if values, ok := arg.(map[string]any); ok {
		return values, nil
	}

	rv := reflect.ValueOf(arg)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, usageErrorf("expected argument %d to be a map with string keys, got %T", position, arg)
	}
	values := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		values[iter.Key().String()] = iter.Value().Interface()
	}
	return values, nil
}

// Filters returns the pongo2 filters the default renderer registers for page
// templates. "camel" applies CanonicalType, so a template can print a type tag
// the way the loader addresses it.
func Filters() map[string]pongo2.FilterFunction {
	return map[string]pongo2.FilterFunction{
		"camel": pongo.StringFilter(CanonicalType),
	}
}
