package models

import "time"

// Property representa um imóvel de investimento com seus dados financeiros e de propriedade.
// Atributos ausentes no documento gravado são serializados com o valor zero do tipo ("", 0 ou []), nunca null.
type Property struct {
	ID              string    `json:"_id" db:"id" bson:"-"`
	Title           string    `json:"title" db:"title" bson:"title"`
	Location        string    `json:"location" db:"location" bson:"location"`
	Type            string    `json:"type" db:"type" bson:"type"` // Ex: "Apartment", "House"
	PurchasePrice   float64   `json:"purchase_price" db:"purchase_price" bson:"purchase_price"`
	Deposit         float64   `json:"deposit" db:"deposit" bson:"deposit"`
	LoanAmount      float64   `json:"loan_amount" db:"loan_amount" bson:"loan_amount"`
	InterestRate    float64   `json:"interest_rate" db:"interest_rate" bson:"interest_rate"` // Percentual
	LoanTerm        int       `json:"loan_term" db:"loan_term" bson:"loan_term"`             // Anos
	Rent            float64   `json:"rent" db:"rent" bson:"rent"`
	VacancyRate     float64   `json:"vacancy_rate" db:"vacancy_rate" bson:"vacancy_rate"` // Fração
	CouncilRates    float64   `json:"council_rates" db:"council_rates" bson:"council_rates"`
	Insurance       float64   `json:"insurance" db:"insurance" bson:"insurance"`
	Maintenance     float64   `json:"maintenance" db:"maintenance" bson:"maintenance"`
	PropertyManager float64   `json:"property_manager" db:"property_manager" bson:"property_manager"`
	WageGrowth      float64   `json:"wage_growth" db:"wage_growth" bson:"wage_growth"`
	Owners          Owners    `json:"owners" db:"owners" bson:"owners"`
	CreatedAt       time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

// PropertySummary é a forma reduzida usada no dashboard.
type PropertySummary struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Location  string    `db:"location"`
	Type      string    `db:"type"`
	CreatedAt time.Time `db:"created_at"`
}

// PatchField é um par coluna/valor de uma atualização parcial.
type PatchField struct {
	Name  string
	Value interface{}
}

// PropertyPatch descreve uma atualização parcial. Campos nil permanecem inalterados.
// O identificador e created_at não fazem parte do patch.
type PropertyPatch struct {
	Title           *string
	Location        *string
	Type            *string
	PurchasePrice   *float64
	Deposit         *float64
	LoanAmount      *float64
	InterestRate    *float64
	LoanTerm        *int
	Rent            *float64
	VacancyRate     *float64
	CouncilRates    *float64
	Insurance       *float64
	Maintenance     *float64
	PropertyManager *float64
	WageGrowth      *float64
	Owners          Owners
}

// Fields retorna os campos presentes no patch, na ordem de declaração.
func (p PropertyPatch) Fields() []PatchField {
	var fields []PatchField
	addString := func(name string, v *string) {
		if v != nil {
			fields = append(fields, PatchField{Name: name, Value: *v})
		}
	}
	addFloat := func(name string, v *float64) {
		if v != nil {
			fields = append(fields, PatchField{Name: name, Value: *v})
		}
	}

	addString("title", p.Title)
	addString("location", p.Location)
	addString("type", p.Type)
	addFloat("purchase_price", p.PurchasePrice)
	addFloat("deposit", p.Deposit)
	addFloat("loan_amount", p.LoanAmount)
	addFloat("interest_rate", p.InterestRate)
	if p.LoanTerm != nil {
		fields = append(fields, PatchField{Name: "loan_term", Value: *p.LoanTerm})
	}
	addFloat("rent", p.Rent)
	addFloat("vacancy_rate", p.VacancyRate)
	addFloat("council_rates", p.CouncilRates)
	addFloat("insurance", p.Insurance)
	addFloat("maintenance", p.Maintenance)
	addFloat("property_manager", p.PropertyManager)
	addFloat("wage_growth", p.WageGrowth)
	if p.Owners != nil {
		fields = append(fields, PatchField{Name: "owners", Value: p.Owners})
	}
	return fields
}

// IsEmpty indica se nenhum campo foi informado.
func (p PropertyPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// ApplyTo copia os campos presentes no patch para o imóvel.
func (p PropertyPatch) ApplyTo(prop *Property) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}

	setString(&prop.Title, p.Title)
	setString(&prop.Location, p.Location)
	setString(&prop.Type, p.Type)
	setFloat(&prop.PurchasePrice, p.PurchasePrice)
	setFloat(&prop.Deposit, p.Deposit)
	setFloat(&prop.LoanAmount, p.LoanAmount)
	setFloat(&prop.InterestRate, p.InterestRate)
	if p.LoanTerm != nil {
		prop.LoanTerm = *p.LoanTerm
	}
	setFloat(&prop.Rent, p.Rent)
	setFloat(&prop.VacancyRate, p.VacancyRate)
	setFloat(&prop.CouncilRates, p.CouncilRates)
	setFloat(&prop.Insurance, p.Insurance)
	setFloat(&prop.Maintenance, p.Maintenance)
	setFloat(&prop.PropertyManager, p.PropertyManager)
	setFloat(&prop.WageGrowth, p.WageGrowth)
	if p.Owners != nil {
		prop.Owners = append(Owners(nil), p.Owners...)
	}
}
