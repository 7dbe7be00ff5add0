package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"github.com/hiveline/hiveline/core"
)

var (
	errNoValidTypeAliases   = errors.New("no valid type aliases provided")
	ErrUnsupportedTypeAlias = errors.New("no driver registered for provided type alias")
)

var _ core.Adapter = (*registeredAdapter)(nil)

// registeredAdapter pairs an engine adapter with user-added helper
// templates. Extra helpers are rendered with the table options on each
// GetHelpers call.
type registeredAdapter struct {
	adapter      core.Adapter
	extraHelpers map[string]*template.Template
}

func (ra *registeredAdapter) Connect(url string) (core.Driver, error) {
	return ra.adapter.Connect(url)
}

func (ra *registeredAdapter) GetHelpers(opts *core.TableOptions) map[string]string {
	helpers := ra.adapter.GetHelpers(opts)
	if helpers == nil {
		helpers = make(map[string]string)
	}

	// extra helpers have priority
	for name, tmpl := range ra.extraHelpers {
		var out bytes.Buffer
		if err := tmpl.Execute(&out, opts); err != nil {
			continue
		}
		helpers[name] = out.String()
	}

	return helpers
}

// registry maps type aliases to adapters. Specific adapters register
// themselves in their init functions, so binaries can leave out engines
// unsupported on their os/arch.
var registry = make(map[string]*registeredAdapter)

func register(adapter core.Adapter, aliases ...string) error {
	entry := &registeredAdapter{adapter: adapter}

	registered := 0
	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		registry[alias] = entry
		registered++
	}

	if registered == 0 {
		return errNoValidTypeAliases
	}
	return nil
}

// Mux is an interface to all registered adapters.
type Mux struct{}

func (*Mux) GetAdapter(typ string) (core.Adapter, error) {
	entry, ok := registry[typ]
	if !ok {
		return nil, ErrUnsupportedTypeAlias
	}
	return entry, nil
}

func (*Mux) AddAdapter(typ string, adapter core.Adapter) error {
	return register(adapter, typ)
}

// AddHelpers attaches extra helper queries to an already registered
// adapter type. The values are text/template strings rendered with
// *core.TableOptions, e.g. "SELECT count(*) FROM {{.Schema}}.{{.Table}}".
func (*Mux) AddHelpers(typ string, helpers map[string]string) error {
	entry, ok := registry[typ]
	if !ok {
		return ErrUnsupportedTypeAlias
	}

	if entry.extraHelpers == nil {
		entry.extraHelpers = make(map[string]*template.Template)
	}

	for name, text := range helpers {
		tmpl, err := template.New("helpers").Parse(text)
		if err != nil {
			return fmt.Errorf("template.New.Parse: %w", err)
		}
		entry.extraHelpers[name] = tmpl
	}

	return nil
}

// NewConnection is a wrapper around core.NewConnection that uses the internal mux for
// adapter registration.
func NewConnection(params *core.ConnectionParams) (*core.Connection, error) {
	adapter, err := new(Mux).GetAdapter(params.Expand().Type)
	if err != nil {
		return nil, fmt.Errorf("Mux.GetAdapter: %w", err)
	}

	c, err := core.NewConnection(params, adapter)
	if err != nil {
		return nil, fmt.Errorf("core.NewConnection: %w", err)
	}

	return c, nil
}

// NewEndpointConnection builds a connection from a (server, port, database)
// triple. The parameters are passed to the engine untouched, only arranged
// into the url layout its driver expects.
func NewEndpointConnection(typ, server string, port int, database string) (*core.Connection, error) {
	url, err := endpointURL(typ, server, port, database)
	if err != nil {
		return nil, err
	}

	return NewConnection(&core.ConnectionParams{
		Name: fmt.Sprintf("%s:%d/%s", server, port, database),
		Type: typ,
		URL:  url,
	})
}

func endpointURL(typ, server string, port int, database string) (string, error) {
	switch typ {
	case "trino":
		return fmt.Sprintf("http://hiveline@%s:%d?catalog=%s", server, port, database), nil
	case "postgres", "postgresql", "pg":
		return fmt.Sprintf("postgres://%s:%d/%s", server, port, database), nil
	case "mysql":
		return fmt.Sprintf("tcp(%s:%d)/%s", server, port, database), nil
	default:
		return "", fmt.Errorf("%q connections cannot be built from an endpoint triple, use NewConnection with a full url", typ)
	}
}
