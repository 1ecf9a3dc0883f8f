package storage

import "errors"

var (
	// ErrInvalidID indica um identificador fora do formato do backend.
	ErrInvalidID = errors.New("identificador inválido")
	// ErrNotFound indica que nenhum documento corresponde ao identificador.
	ErrNotFound = errors.New("imóvel não encontrado")
	// ErrNotModified indica que o documento existe mas os valores já eram iguais.
	ErrNotModified = errors.New("imóvel não modificado")
)
