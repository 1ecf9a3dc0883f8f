package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ferreirogomes/propfolio/events"
	"github.com/ferreirogomes/propfolio/logging"
	"github.com/ferreirogomes/propfolio/models"
	"github.com/ferreirogomes/propfolio/storage"
)

// PropertyService concentra as regras de criação, atualização e remoção de imóveis.
type PropertyService struct {
	Store     PropertyStore
	Publisher EventPublisher
	Now       func() time.Time
}

// NewPropertyService cria uma nova instância do serviço de imóveis.
func NewPropertyService(store PropertyStore, publisher EventPublisher) *PropertyService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &PropertyService{
		Store:     store,
		Publisher: publisher,
		Now:       time.Now,
	}
}

// ListProperties retorna todos os imóveis na ordem natural do backend.
func (s *PropertyService) ListProperties(ctx context.Context) ([]models.Property, error) {
	properties, err := s.Store.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []models.Property{}
	}
	return properties, nil
}

// GetProperty busca um imóvel. Identificador mal formado conta como não encontrado.
func (s *PropertyService) GetProperty(ctx context.Context, id string) (models.Property, error) {
	p, found, err := s.Store.GetProperty(ctx, id)
	if errors.Is(err, storage.ErrInvalidID) {
		return models.Property{}, ErrNotFound
	}
	if err != nil {
		return models.Property{}, err
	}
	if !found {
		return models.Property{}, ErrNotFound
	}
	return p, nil
}

// CreateProperty valida a entrada, grava o imóvel e retorna o documento relido do store.
func (s *PropertyService) CreateProperty(ctx context.Context, in models.PropertyInput) (models.Property, error) {
	logger := logging.FromContext(ctx)

	p, err := coerceProperty(in)
	if err != nil {
		return models.Property{}, err
	}

	p.Owners = filterOwners(in.Owners)
	if len(p.Owners) == 0 {
		logger.Warn("Imóvel rejeitado sem proprietário válido.", logging.Fields{"owners_received": len(in.Owners)})
		return models.Property{}, validationError("At least one valid owner is required")
	}

	p.CreatedAt = s.Now().UTC()

	id, err := s.Store.InsertProperty(ctx, p)
	if err != nil {
		return models.Property{}, err
	}
	if id == "" {
		return models.Property{}, persistenceError("Insert failed")
	}

	created, found, err := s.Store.GetProperty(ctx, id)
	if err != nil {
		return models.Property{}, err
	}
	if !found {
		return models.Property{}, persistenceError("Unable to retrieve inserted document")
	}

	logger.Info("Imóvel criado.", logging.Fields{"property_id": id, "owners": len(created.Owners)})
	s.publish(ctx, events.PropertyCreated, id)
	return created, nil
}

// UpdateProperty aplica uma atualização parcial com as mesmas regras de conversão da criação.
func (s *PropertyService) UpdateProperty(ctx context.Context, id string, in models.PropertyInput) error {
	patch, err := buildPatch(in)
	if err != nil {
		return err
	}

	err = s.Store.UpdateProperty(ctx, id, patch)
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		return invalidIDError(id)
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrNotModified):
		return ErrNotModified
	case err != nil:
		return err
	}

	logging.FromContext(ctx).Info("Imóvel atualizado.", logging.Fields{"property_id": id, "fields": len(patch.Fields())})
	s.publish(ctx, events.PropertyUpdated, id)
	return nil
}

// DeleteProperty remove um imóvel pelo identificador.
func (s *PropertyService) DeleteProperty(ctx context.Context, id string) error {
	deleted, err := s.Store.DeleteProperty(ctx, id)
	if errors.Is(err, storage.ErrInvalidID) {
		return invalidIDError(id)
	}
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	logging.FromContext(ctx).Info("Imóvel removido.", logging.Fields{"property_id": id})
	s.publish(ctx, events.PropertyDeleted, id)
	return nil
}

// publish nunca falha a requisição: erros do broker só vão para o log.
func (s *PropertyService) publish(ctx context.Context, eventType, id string) {
	event := events.NewPropertyEvent(eventType, id, s.Now().UTC())
	if err := s.Publisher.Publish(ctx, event); err != nil {
		logging.FromContext(ctx).Error("Falha ao publicar evento de imóvel.", err, logging.Fields{
			"event_type":  eventType,
			"property_id": id,
		})
	}
}

func invalidIDError(id string) error {
	return fmt.Errorf("'%s' is not a valid property identifier: %w", id, storage.ErrInvalidID)
}

// coerceProperty converte os campos de texto e numéricos da entrada. Campos
// ausentes viram "" ou 0.
func coerceProperty(in models.PropertyInput) (models.Property, error) {
	for _, f := range in.DecimalFields() {
		if !f.Value.Valid() {
			return models.Property{}, invalidNumber(f.Name)
		}
	}
	if !in.LoanTerm.Valid() || !in.LoanTerm.FitsInt32() {
		return models.Property{}, invalidNumber("loan_term")
	}

	return models.Property{
		Title:           deref(in.Title),
		Location:        deref(in.Location),
		Type:            deref(in.Type),
		PurchasePrice:   in.PurchasePrice.Float(),
		Deposit:         in.Deposit.Float(),
		LoanAmount:      in.LoanAmount.Float(),
		InterestRate:    in.InterestRate.Float(),
		LoanTerm:        in.LoanTerm.Int(),
		Rent:            in.Rent.Float(),
		VacancyRate:     in.VacancyRate.Float(),
		CouncilRates:    in.CouncilRates.Float(),
		Insurance:       in.Insurance.Float(),
		Maintenance:     in.Maintenance.Float(),
		PropertyManager: in.PropertyManager.Float(),
		WageGrowth:      in.WageGrowth.Float(),
	}, nil
}

// filterOwners mantém, na ordem recebida, apenas proprietários com nome e
// participação e renda positivas.
func filterOwners(in []models.OwnerInput) models.Owners {
	owners := models.Owners{}
	for _, o := range in {
		name := strings.TrimSpace(o.Name)
		if name == "" || !o.Ownership.Positive() || !o.Income.Positive() {
			continue
		}
		owners = append(owners, models.Owner{
			Name:      name,
			Ownership: o.Ownership.Float(),
			Income:    o.Income.Float(),
		})
	}
	return owners
}

// buildPatch monta o patch só com os campos informados.
func buildPatch(in models.PropertyInput) (models.PropertyPatch, error) {
	patch := models.PropertyPatch{
		Title:    in.Title,
		Location: in.Location,
		Type:     in.Type,
	}

	decimals := map[string]**float64{
		"purchase_price":   &patch.PurchasePrice,
		"deposit":          &patch.Deposit,
		"loan_amount":      &patch.LoanAmount,
		"interest_rate":    &patch.InterestRate,
		"rent":             &patch.Rent,
		"vacancy_rate":     &patch.VacancyRate,
		"council_rates":    &patch.CouncilRates,
		"insurance":        &patch.Insurance,
		"maintenance":      &patch.Maintenance,
		"property_manager": &patch.PropertyManager,
		"wage_growth":      &patch.WageGrowth,
	}
	for _, f := range in.DecimalFields() {
		if !f.Value.Present() {
			continue
		}
		if !f.Value.Valid() {
			return models.PropertyPatch{}, invalidNumber(f.Name)
		}
		v := f.Value.Float()
		*decimals[f.Name] = &v
	}

	if in.LoanTerm.Present() {
		if !in.LoanTerm.Valid() || !in.LoanTerm.FitsInt32() {
			return models.PropertyPatch{}, invalidNumber("loan_term")
		}
		v := in.LoanTerm.Int()
		patch.LoanTerm = &v
	}

	if in.Owners != nil {
		patch.Owners = filterOwners(in.Owners)
		if len(patch.Owners) == 0 {
			return models.PropertyPatch{}, validationError("At least one valid owner is required")
		}
	}

	if patch.IsEmpty() {
		return models.PropertyPatch{}, validationError("No updatable fields provided")
	}
	return patch, nil
}

func invalidNumber(field string) error {
	return validationError(fmt.Sprintf("Field '%s' must be a number", field))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
