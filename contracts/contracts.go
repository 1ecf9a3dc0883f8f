package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

const baseURL = "https://propfolio.local/schemas/"

// Contratos dos corpos de requisição.
const (
	PropertyCreate = "property-create"
	PropertyUpdate = "property-update"
)

// ErrInvalidBody indica corpo que não é JSON ou que não segue o contrato.
var ErrInvalidBody = errors.New("invalid request body")

var compiledSchemas = mustCompile()

func mustCompile() map[string]*jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	entries, err := schemasFS.ReadDir("schemas")
	if err != nil {
		panic(fmt.Sprintf("contracts: falha ao ler schemas embutidos: %v", err))
	}
	for _, e := range entries {
		f, err := schemasFS.Open(path.Join("schemas", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("contracts: falha ao abrir %s: %v", e.Name(), err))
		}
		err = compiler.AddResource(baseURL+e.Name(), f)
		f.Close()
		if err != nil {
			panic(fmt.Sprintf("contracts: falha ao registrar %s: %v", e.Name(), err))
		}
	}

	compiled := make(map[string]*jsonschema.Schema)
	for _, name := range []string{PropertyCreate, PropertyUpdate} {
		schema, err := compiler.Compile(baseURL + name + ".json")
		if err != nil {
			panic(fmt.Sprintf("contracts: falha ao compilar %s: %v", name, err))
		}
		compiled[name] = schema
	}
	return compiled
}

// Validate verifica o corpo contra o contrato indicado. Só a estrutura é
// verificada; a conversão dos valores fica com os serviços.
func Validate(contract string, body []byte) error {
	schema, ok := compiledSchemas[contract]
	if !ok {
		return fmt.Errorf("contrato '%s' não encontrado", contract)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: body is not valid JSON", ErrInvalidBody)
	}

	if err := schema.Validate(v); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", ErrInvalidBody, describe(verr))
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// describe retorna a causa mais interna, que aponta o campo com problema.
func describe(verr *jsonschema.ValidationError) string {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	location := leaf.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Sprintf("%s %s", location, leaf.Message)
}
