package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ferreirogomes/propfolio/contracts"
	"github.com/ferreirogomes/propfolio/models"
	"github.com/ferreirogomes/propfolio/services"

	"github.com/go-chi/chi/v5"
)

// PropertyHandler lida com requisições HTTP relacionadas a imóveis.
type PropertyHandler struct {
	Service *services.PropertyService
}

// NewPropertyHandler cria uma nova instância do handler de imóveis.
func NewPropertyHandler(s *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{Service: s}
}

// ListProperties lista todos os imóveis.
// GET /api/properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) error {
	properties, err := h.Service.ListProperties(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, properties)
	return nil
}

// GetProperty obtém um imóvel pelo ID.
// GET /api/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) error {
	p, err := h.Service.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

// CreateProperty cria um novo imóvel.
// POST /api/properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) error {
	in, err := decodeProperty(r, contracts.PropertyCreate)
	if err != nil {
		return err
	}

	p, err := h.Service.CreateProperty(r.Context(), in)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, p)
	return nil
}

// UpdateProperty atualiza parcialmente um imóvel.
// PUT /api/properties/{id}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) error {
	in, err := decodeProperty(r, contracts.PropertyUpdate)
	if err != nil {
		return err
	}

	if err := h.Service.UpdateProperty(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Property updated"})
	return nil
}

// DeleteProperty remove um imóvel.
// DELETE /api/properties/{id}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) error {
	if err := h.Service.DeleteProperty(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Property deleted"})
	return nil
}

// decodeProperty valida o corpo contra o contrato e o decodifica.
func decodeProperty(r *http.Request, contract string) (models.PropertyInput, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return models.PropertyInput{}, err
	}
	if err := contracts.Validate(contract, body); err != nil {
		return models.PropertyInput{}, err
	}

	var in models.PropertyInput
	if err := json.Unmarshal(body, &in); err != nil {
		return models.PropertyInput{}, fmt.Errorf("%w: %v", contracts.ErrInvalidBody, err)
	}
	return in, nil
}
