package backoff_adapter

import "shop/pkg/logger"

//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=backoff_adapter_test

type readyLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
