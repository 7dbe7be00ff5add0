package testhelpers

import (
	"context"
	"fmt"
	"os"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hiveline/hiveline/adapters"
	"github.com/hiveline/hiveline/core"
)

type TrinoContainer struct {
	tc.Container
	ConnURL string
	Driver  *core.Connection
}

// NewTrinoContainer starts a coordinator with the memory catalog and
// connects a driver to it. The params.URL is overwritten. When
// HIVELINE_TRINO_URL is set, the given endpoint is used instead and no
// container is started.
func NewTrinoContainer(ctx context.Context, params *core.ConnectionParams) (*TrinoContainer, error) {
	if url := os.Getenv("HIVELINE_TRINO_URL"); url != "" {
		params.URL = url
		if params.Type == "" {
			params.Type = "trino"
		}
		driver, err := adapters.NewConnection(params)
		if err != nil {
			return nil, err
		}
		return &TrinoContainer{ConnURL: url, Driver: driver}, nil
	}

	ctr, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ProviderType: GetContainerProvider(),
		ContainerRequest: tc.ContainerRequest{
			Image:        "trinodb/trino:455",
			ExposedPorts: []string{"8080/tcp"},
			WaitingFor:   wait.ForLog("SERVER STARTED"),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := ctr.MappedPort(ctx, "8080")
	if err != nil {
		return nil, err
	}

	connURL := fmt.Sprintf("http://hiveline@%s:%d?catalog=memory&schema=default", host, port.Int())

	if params.Type == "" {
		params.Type = "trino"
	}
	params.URL = connURL

	driver, err := adapters.NewConnection(params)
	if err != nil {
		return nil, err
	}

	return &TrinoContainer{
		Container: ctr,
		ConnURL:   connURL,
		Driver:    driver,
	}, nil
}

// NewDriver helper function to create a new driver with the connection URL.
func (c *TrinoContainer) NewDriver(params *core.ConnectionParams) (*core.Connection, error) {
	if params.URL == "" {
		params.URL = c.ConnURL
	}
	if params.Type == "" {
		params.Type = "trino"
	}

	return adapters.NewConnection(params)
}
