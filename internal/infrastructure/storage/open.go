package storage

import (
	"context"
	"fmt"

	"TechBriefing/internal/config"
	"TechBriefing/internal/ports"
)

// Open builds the seen store selected by configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (ports.SeenStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return OpenSQLite(ctx, cfg.Path)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case config.DriverRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisKey)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
