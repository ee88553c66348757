package config

import (
	"context"
	"fmt"

	"taskmanager/app/store"
	"taskmanager/app/store/mongostore"
	"taskmanager/app/store/neo4jstore"
	"taskmanager/app/store/sqlstore"
)

// OpenStore connects to the backend selected by c.Store.Driver. The caller
// owns the returned store and must Close it.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Store.Timeout)
	defer cancel()

	switch c.Store.Driver {
	case StoreMongo:
		client, dbName, err := InitMongo(ctx, c.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		s, err := mongostore.New(ctx, client, dbName)
		if err != nil {
			client.Disconnect(context.Background())
			return nil, err
		}
		return s, nil
	case StoreNeo4j:
		driver, err := InitNeo4j(ctx, c.Neo4j)
		if err != nil {
			return nil, fmt.Errorf("connect to neo4j: %w", err)
		}
		s, err := neo4jstore.New(ctx, driver)
		if err != nil {
			driver.Close(context.Background())
			return nil, err
		}
		return s, nil
	case StoreSQLite, StoreMySQL:
		dialect, _ := sqlstore.DialectByName(c.Store.Driver)
		dsn := c.SQL.SQLitePath
		if c.Store.Driver == StoreMySQL {
			dsn = c.SQL.MySQLDSN
		}
		s, err := sqlstore.Open(ctx, dialect, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, &ConfigError{Field: "store.driver", Message: "unknown store " + c.Store.Driver}
}
