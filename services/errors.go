package services

import "errors"

// Categorias de erro devolvidas pelos serviços. Os handlers usam errors.Is
// para escolher o status HTTP.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("Property not found")
	ErrNotModified = errors.New("Property not modified")
	ErrPersistence = errors.New("persistence error")
)

// Error carrega a mensagem mostrada ao cliente e a categoria do erro.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func persistenceError(msg string) error {
	return &Error{Kind: ErrPersistence, Message: msg}
}
