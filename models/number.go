package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number é um campo numérico recebido do cliente. Aceita número JSON ou string
// numérica. null, string vazia ou ausência contam como "não informado".
type Number struct {
	value   float64
	present bool
	valid   bool
}

// NewNumber cria um Number informado e válido.
func NewNumber(v float64) Number {
	return Number{value: v, present: true, valid: true}
}

// UnmarshalJSON implementa json.Unmarshaler. Valores não numéricos não geram
// erro de decodificação: ficam marcados como inválidos para a validação decidir.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		raw = s
	}

	n.present = true
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.value = f
	n.valid = true
	return nil
}

// MarshalJSON implementa json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.present || !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// Present indica se o cliente informou algum valor.
func (n Number) Present() bool { return n.present }

// Valid indica se o valor informado é numérico. Ausente conta como válido.
func (n Number) Valid() bool { return !n.present || n.valid }

// Float retorna o valor, com zero para ausente.
func (n Number) Float() float64 {
	if !n.present || !n.valid {
		return 0
	}
	return n.value
}

// Int retorna o valor truncado em direção a zero.
func (n Number) Int() int {
	return int(math.Trunc(n.Float()))
}

// FitsInt32 indica se o valor truncado cabe numa coluna integer. Ausente cabe.
func (n Number) FitsInt32() bool {
	v := math.Trunc(n.Float())
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// Positive indica se o valor foi informado, é numérico e maior que zero.
func (n Number) Positive() bool {
	return n.present && n.valid && n.value > 0
}
