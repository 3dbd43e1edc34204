package repository

import "errors"

var (
	ErrNotFound         = errors.New("entity not found")
	ErrForbidden        = errors.New("entity belongs to another seller")
	ErrUpdateFailed     = errors.New("update failed")
	ErrConnectionFailed = errors.New("database connection failed")
)
