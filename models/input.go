package models

import "encoding/json"

// OwnerInput é um proprietário como enviado pelo cliente.
type OwnerInput struct {
	Name      string `json:"name"`
	Ownership Number `json:"ownership"`
	Income    Number `json:"income"`
}

// UnmarshalJSON nunca falha: entradas que não são objeto, nomes que não são
// texto e valores não numéricos ficam vazios ou inválidos, e o filtro de
// proprietários descarta a entrada.
func (o *OwnerInput) UnmarshalJSON(b []byte) error {
	*o = OwnerInput{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		return nil
	}

	if raw, ok := fields["name"]; ok {
		var name string
		if json.Unmarshal(raw, &name) == nil {
			o.Name = name
		}
	}
	if raw, ok := fields["ownership"]; ok {
		_ = o.Ownership.UnmarshalJSON(raw)
	}
	if raw, ok := fields["income"]; ok {
		_ = o.Income.UnmarshalJSON(raw)
	}
	return nil
}

// PropertyInput é o corpo aceito na criação e na atualização de imóveis.
// Todos os campos são opcionais; campos de texto ausentes ficam nil.
type PropertyInput struct {
	Title           *string      `json:"title"`
	Location        *string      `json:"location"`
	Type            *string      `json:"type"`
	PurchasePrice   Number       `json:"purchase_price"`
	Deposit         Number       `json:"deposit"`
	LoanAmount      Number       `json:"loan_amount"`
	InterestRate    Number       `json:"interest_rate"`
	LoanTerm        Number       `json:"loan_term"`
	Rent            Number       `json:"rent"`
	VacancyRate     Number       `json:"vacancy_rate"`
	CouncilRates    Number       `json:"council_rates"`
	Insurance       Number       `json:"insurance"`
	Maintenance     Number       `json:"maintenance"`
	PropertyManager Number       `json:"property_manager"`
	WageGrowth      Number       `json:"wage_growth"`
	Owners          []OwnerInput `json:"owners"`
}

// NumericField associa o nome JSON de um campo numérico ao seu valor.
type NumericField struct {
	Name  string
	Value Number
}

// DecimalFields lista os campos decimais na ordem de declaração (sem loan_term).
func (in PropertyInput) DecimalFields() []NumericField {
	return []NumericField{
		{"purchase_price", in.PurchasePrice},
		{"deposit", in.Deposit},
		{"loan_amount", in.LoanAmount},
		{"interest_rate", in.InterestRate},
		{"rent", in.Rent},
		{"vacancy_rate", in.VacancyRate},
		{"council_rates", in.CouncilRates},
		{"insurance", in.Insurance},
		{"maintenance", in.Maintenance},
		{"property_manager", in.PropertyManager},
		{"wage_growth", in.WageGrowth},
	}
}
