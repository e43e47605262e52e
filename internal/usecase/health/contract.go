package health

import "context"

// DBPinger checks KV store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// WordVectorChecker checks word vector provider availability.
type WordVectorChecker interface {
	HealthCheck(ctx context.Context) error
}
