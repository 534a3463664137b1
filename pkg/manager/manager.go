// Package manager picks the template variant for the current request URL and
// hands typed template requests to a loader.
package manager

import (
	"fmt"
	"io"
	"reflect"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-pagetemplate/pkg/rules"
	"github.com/goliatone/go-pagetemplate/pkg/templater"
)

var autoDetectMethodPattern = regexp2.MustCompile(`autoDetect(?<type>.*?)Template`, regexp2.None)

// Loader renders the template addressed by name and type. *templater.Loader
// satisfies it.
type Loader interface {
	Load(w io.Writer, name, typ string, values map[string]any) error
}

var _ Loader = (*templater.Loader)(nil)

func isNilLoader(loader Loader) bool {
	if loader == nil {
		return true
	}
	rv := reflect.ValueOf(loader)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for resolution events.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager resolves the template name for one URL. It is read-only after New.
type Manager struct {
	currentURL string
	loader     Loader
	rules      *rules.RuleSet
	logger     zerolog.Logger
}

// New builds a Manager for currentURL. config is anything rules.From accepts:
// a rules file path, a rule list, a compiled RuleSet or a literal structure.
// Configuration faults are returned and no Manager is built.
func New(currentURL string, loader Loader, config any, options ...Option) (*Manager, error) {
	if isNilLoader(loader) {
		return nil, fmt.Errorf("%w: manager: loader is required", rules.ErrInvalidArgument)
	}
	set, err := rules.From(config)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		currentURL: currentURL,
		loader:     loader,
		rules:      set,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m, nil
}

// URL returns the URL the manager resolves against.
func (m *Manager) URL() string {
	return m.currentURL
}

// Rules returns the configured rules in declaration order.
func (m *Manager) Rules() []rules.Rule {
	return m.rules.Rules()
}

// ResolveName returns the template name selected by the current URL. When no
// rule matches it returns "" and false; that is not an error.
func (m *Manager) ResolveName() (string, bool) {
	match, ok := m.rules.Match(m.currentURL)
	if !ok {
		m.logger.Debug().
			Str("url", m.currentURL).
			Int("rules", m.rules.Len()).
			Msg("no template rule matched")
		return "", false
	}
	m.logger.Debug().
		Str("url", m.currentURL).
		Str("name", match.Name).
		Str("pattern", match.Pattern).
		Int("rule", match.Index).
		Msg("template rule matched")
	return match.Name, true
}

// AutoDetect renders the typ template of the resolved variant into w. A nil
// values map is sent as an empty one. Loader errors, including
// *templater.TemplateNotFoundError, are returned unchanged.
func (m *Manager) AutoDetect(w io.Writer, typ string, values map[string]any) error {
	if typ == "" {
		return fmt.Errorf("%w: template type must be a non-empty token", templater.ErrUsage)
	}
	if values == nil {
		values = map[string]any{}
	}
	name, _ := m.ResolveName()
	return m.loader.Load(w, name, typ, values)
}

// Call dispatches an autoDetect{Type}Template call. At most one argument is
// accepted and it must be a values map. Malformed calls return
// templater.ErrUsage before anything is resolved or loaded.
func (m *Manager) Call(w io.Writer, method string, args ...any) error {
	match, err := autoDetectMethodPattern.FindStringMatch(method)
	if err != nil || match == nil {
		return fmt.Errorf("%w: method does not exist or does not match pattern 'autoDetect{Type}Template', found: %s", templater.ErrUsage, method)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: expected 0 or 1 arguments, got %d", templater.ErrUsage, len(args))
	}

	var values map[string]any
	if len(args) == 1 {
		values, err = templater.ValuesArg(1, args[0])
		if err != nil {
			return err
		}
	}
	return m.AutoDetect(w, match.GroupByName("type").String(), values)
}
