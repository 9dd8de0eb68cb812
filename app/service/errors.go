package service

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrOrderNotFound  = errors.New("order not found")
	ErrGatewayFailure = errors.New("gateway preference creation failed")
)
