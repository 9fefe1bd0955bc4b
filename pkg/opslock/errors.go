package opslock

import "errors"

var (
	ErrEmptyUnit                    = errors.New("lock requested with an empty unit name")
	ErrNotHolder                    = errors.New("lock is held by another unit")
	ErrLockStore                    = errors.New("lock store operation failed")
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
)
