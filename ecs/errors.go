package ecs

import "github.com/rotisserie/eris"

var (
	ErrInvalidDocument = eris.New("invalid entity document")
	ErrEntityNotFound  = eris.New("entity not found")
)
