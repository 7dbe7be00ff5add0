package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/hiveline/hiveline/adapters"
	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/format"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hiveline: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "hiveline.yaml", "path to the connections config file")
		connName   = flag.String("conn", "", "name of the connection from the config file")
		connType   = flag.String("type", "", "adapter type (used together with -url instead of a config file)")
		connURL    = flag.String("url", "", "connection url (used together with -type instead of a config file)")
		outFormat  = flag.String("format", "table", "output format: table, csv or json")
		timeout    = flag.Duration("timeout", 0, "per-query deadline, 0 means none")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("expected exactly one query argument")
	}
	query := flag.Arg(0)

	params, err := resolveParams(*configPath, *connName, *connType, *connURL)
	if err != nil {
		return err
	}

	formatter, err := resolveFormatter(*outFormat)
	if err != nil {
		return err
	}

	conn, err := adapters.NewConnection(params)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	stream, err := conn.Query(ctx, query)
	if err != nil {
		return err
	}

	result := new(core.Result)
	if err := result.SetIter(stream, nil); err != nil {
		return err
	}

	out, err := result.Format(formatter, 0, result.Len())
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	fmt.Fprintf(os.Stderr, "%d row(s)\n", result.Len())

	return nil
}

// resolveParams either takes the type/url pair directly or looks a named
// connection up in the config file.
func resolveParams(configPath, name, typ, url string) (*core.ConnectionParams, error) {
	if typ != "" || url != "" {
		if typ == "" || url == "" {
			return nil, errors.New("-type and -url have to be used together")
		}
		return &core.ConnectionParams{Name: "cli", Type: typ, URL: url}, nil
	}

	if name == "" {
		return nil, errors.New("either -conn or -type/-url has to be provided")
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	var connections []struct {
		ID   string `mapstructure:"id"`
		Name string `mapstructure:"name"`
		Type string `mapstructure:"type"`
		URL  string `mapstructure:"url"`
	}
	if err := v.UnmarshalKey("connections", &connections); err != nil {
		return nil, fmt.Errorf("could not parse connections: %w", err)
	}

	for _, c := range connections {
		if c.Name != name {
			continue
		}
		return &core.ConnectionParams{
			ID:   core.ConnectionID(c.ID),
			Name: c.Name,
			Type: c.Type,
			URL:  c.URL,
		}, nil
	}

	return nil, fmt.Errorf("no connection named %q in %s", name, configPath)
}

func resolveFormatter(name string) (core.Formatter, error) {
	switch name {
	case "table":
		return format.NewTable(), nil
	case "csv":
		return format.NewCSV(), nil
	case "json":
		return format.NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}
