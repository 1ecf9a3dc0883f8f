package storage

import (
	"testing"
	"time"

	"github.com/ferreirogomes/propfolio/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func TestBuildMetricsWhere(t *testing.T) {
	where, args := buildMetricsWhere(models.MetricsFilter{})
	assert.Equal(t, "", where)
	assert.Empty(t, args)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	where, args = buildMetricsWhere(models.MetricsFilter{Type: "Apartment", CreatedFrom: &from, CreatedBefore: &before})

	assert.Equal(t, " WHERE type = ? AND created_at >= ? AND created_at < ?", where)
	assert.Equal(t, []interface{}{"Apartment", from, before}, args)
	assert.Equal(t,
		"SELECT COUNT(*) FROM properties WHERE type = $1 AND created_at >= $2 AND created_at < $3",
		sqlx.Rebind(sqlx.DOLLAR, "SELECT COUNT(*) FROM properties"+where))
}

func TestBuildUpdate(t *testing.T) {
	title := "Unit 5"
	owners := models.Owners{{Name: "A", Ownership: 100, Income: 1}}
	patch := models.PropertyPatch{Title: &title, Owners: owners}

	query, args := buildUpdate("id-1", patch.Fields())

	assert.Equal(t,
		"UPDATE properties SET title = ?, owners = ?::jsonb WHERE id = ? AND (title IS DISTINCT FROM ? OR owners IS DISTINCT FROM ?::jsonb)",
		query)
	assert.Equal(t, []interface{}{"Unit 5", owners, "id-1", "Unit 5", owners}, args)
	assert.Equal(t,
		"UPDATE properties SET title = $1, owners = $2::jsonb WHERE id = $3 AND (title IS DISTINCT FROM $4 OR owners IS DISTINCT FROM $5::jsonb)",
		sqlx.Rebind(sqlx.DOLLAR, query))
}
