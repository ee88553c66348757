package config

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// InitNeo4j initializes the Neo4j driver, checks that the server answers,
// and returns it.
func InitNeo4j(ctx context.Context, cfg Neo4jConfig) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return driver, nil
}
