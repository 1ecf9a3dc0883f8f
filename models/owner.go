package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Owner representa um dos proprietários (fracionários) de um imóvel.
type Owner struct {
	Name      string  `json:"name" bson:"name"`
	Ownership float64 `json:"ownership" bson:"ownership"` // Participação em %
	Income    float64 `json:"income" bson:"income"`
}

// Owners é a lista ordenada de proprietários. No PostgreSQL é gravada como JSONB.
type Owners []Owner

// Value implementa driver.Valuer.
// Retorna string para que o lib/pq envie o valor como texto (aceito por jsonb).
func (o Owners) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("falha ao serializar proprietários: %w", err)
	}
	return string(b), nil
}

// Scan implementa sql.Scanner.
func (o *Owners) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*o = Owners{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("tipo não suportado para proprietários: %T", src)
	}

	var owners Owners
	if err := json.Unmarshal(data, &owners); err != nil {
		return fmt.Errorf("falha ao ler proprietários: %w", err)
	}
	*o = owners
	return nil
}
