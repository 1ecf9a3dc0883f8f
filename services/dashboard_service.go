package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ferreirogomes/propfolio/models"
)

const (
	recentPropertiesLimit = 5
	dateLayout            = "2006-01-02"
)

// DashboardService calcula as métricas do painel administrativo. Só leitura.
type DashboardService struct {
	Store PropertyStore
}

// NewDashboardService cria uma nova instância do serviço do dashboard.
func NewDashboardService(store PropertyStore) *DashboardService {
	return &DashboardService{Store: store}
}

// ParseMetricsFilter converte os parâmetros type, start_date e end_date.
// As duas datas incluem o dia inteiro, então end_date vira o início do dia seguinte.
func ParseMetricsFilter(propertyType, startDate, endDate string) (models.MetricsFilter, error) {
	f := models.MetricsFilter{Type: strings.TrimSpace(propertyType)}

	if startDate = strings.TrimSpace(startDate); startDate != "" {
		start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
		if err != nil {
			return models.MetricsFilter{}, validationError(fmt.Sprintf("Invalid start_date '%s', expected YYYY-MM-DD", startDate))
		}
		f.CreatedFrom = &start
	}

	if endDate = strings.TrimSpace(endDate); endDate != "" {
		end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
		if err != nil {
			return models.MetricsFilter{}, validationError(fmt.Sprintf("Invalid end_date '%s', expected YYYY-MM-DD", endDate))
		}
		before := end.AddDate(0, 0, 1)
		f.CreatedBefore = &before
	}

	return f, nil
}

// Metrics retorna total, preço médio de compra e os imóveis mais recentes do filtro.
func (s *DashboardService) Metrics(ctx context.Context, f models.MetricsFilter) (models.DashboardMetrics, error) {
	total, err := s.Store.CountProperties(ctx, f)
	if err != nil {
		return models.DashboardMetrics{}, err
	}

	avg, ok, err := s.Store.AveragePurchasePrice(ctx, f)
	if err != nil {
		return models.DashboardMetrics{}, err
	}
	if !ok {
		avg = 0
	}

	summaries, err := s.Store.RecentProperties(ctx, f, recentPropertiesLimit)
	if err != nil {
		return models.DashboardMetrics{}, err
	}
	recent := make([]models.RecentProperty, 0, len(summaries))
	for _, p := range summaries {
		recent = append(recent, models.RecentProperty{
			ID:        p.ID,
			Title:     p.Title,
			Location:  p.Location,
			Type:      p.Type,
			CreatedAt: p.CreatedAt.UTC().Format(dateLayout),
		})
	}

	return models.DashboardMetrics{
		TotalProperties:      total,
		AveragePurchasePrice: math.Round(avg*100) / 100,
		RecentProperties:     recent,
	}, nil
}

// TypeDistribution conta todos os imóveis por tipo, ignorando filtros.
func (s *DashboardService) TypeDistribution(ctx context.Context) (models.TypeDistribution, error) {
	counts, err := s.Store.CountByType(ctx)
	if err != nil {
		return models.TypeDistribution{}, err
	}
	if counts == nil {
		counts = []models.TypeCount{}
	}
	return models.TypeDistribution{DistributionByType: counts}, nil
}
