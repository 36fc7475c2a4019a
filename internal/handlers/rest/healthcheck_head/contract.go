package healthcheck_head

import "context"

//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=healthcheck_head_test

// Dependency то, без чего процесс не может обслуживать запросы (postgres, redis).
type Dependency interface {
	Ping(ctx context.Context) error
}
