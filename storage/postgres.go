package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/ferreirogomes/propfolio/logging"
	"github.com/ferreirogomes/propfolio/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const propertyColumns = `id, title, location, type, purchase_price, deposit, loan_amount,
	interest_rate, loan_term, rent, vacancy_rate, council_rates, insurance, maintenance,
	property_manager, wage_growth, owners, created_at`

// DB representa a conexão com o banco de dados PostgreSQL.
type DB struct {
	*sqlx.DB
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(ctx context.Context, dataSourceName string, logger logging.Logger) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}
	logger.Info("Conexão com PostgreSQL estabelecida com sucesso.", nil)

	if err := runMigrations(db.DB, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}

	return &DB{db}, nil
}

// runMigrations executa as migrações embutidas usando sql-migrate.
func runMigrations(db *sql.DB, logger logging.Logger) error {
	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		logger.Info("Migrações aplicadas ao banco de dados.", logging.Fields{"count": n})
	} else {
		logger.Debug("Nenhuma migração nova para aplicar.", nil)
	}
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.PingContext(ctx)
}

func (d *DB) Close(ctx context.Context) error {
	return d.DB.Close()
}

func (d *DB) ListProperties(ctx context.Context) ([]models.Property, error) {
	properties := []models.Property{}
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at`
	if err := d.SelectContext(ctx, &properties, query); err != nil {
		return nil, fmt.Errorf("falha ao listar imóveis: %w", err)
	}
	return properties, nil
}

func (d *DB) GetProperty(ctx context.Context, id string) (models.Property, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Property{}, false, ErrInvalidID
	}

	var p models.Property
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	err := d.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, false, nil
	}
	if err != nil {
		return models.Property{}, false, fmt.Errorf("falha ao buscar imóvel: %w", err)
	}
	return p, true, nil
}

func (d *DB) InsertProperty(ctx context.Context, p models.Property) (string, error) {
	p.ID = uuid.New().String()
	if p.Owners == nil {
		p.Owners = models.Owners{}
	}

	query := `INSERT INTO properties (` + propertyColumns + `) VALUES (
		:id, :title, :location, :type, :purchase_price, :deposit, :loan_amount,
		:interest_rate, :loan_term, :rent, :vacancy_rate, :council_rates, :insurance, :maintenance,
		:property_manager, :wage_growth, :owners, :created_at)`
	if _, err := d.NamedExecContext(ctx, query, p); err != nil {
		return "", fmt.Errorf("falha ao inserir imóvel: %w", err)
	}
	return p.ID, nil
}

// UpdateProperty só altera a linha se algum valor for diferente do atual, para que
// uma atualização sem efeito seja reportada como ErrNotModified.
func (d *DB) UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return ErrNotModified
	}

	query, args := buildUpdate(id, fields)
	res, err := d.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("falha ao atualizar imóvel: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("falha ao ler linhas afetadas: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := d.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM properties WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("falha ao verificar imóvel: %w", err)
	}
	if exists {
		return ErrNotModified
	}
	return ErrNotFound
}

func (d *DB) DeleteProperty(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, ErrInvalidID
	}
	res, err := d.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("falha ao remover imóvel: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("falha ao ler linhas afetadas: %w", err)
	}
	return n == 1, nil
}

func (d *DB) CountProperties(ctx context.Context, f models.MetricsFilter) (int64, error) {
	where, args := buildMetricsWhere(f)
	var total int64
	if err := d.GetContext(ctx, &total, d.Rebind(`SELECT COUNT(*) FROM properties`+where), args...); err != nil {
		return 0, fmt.Errorf("falha ao contar imóveis: %w", err)
	}
	return total, nil
}

func (d *DB) AveragePurchasePrice(ctx context.Context, f models.MetricsFilter) (float64, bool, error) {
	where, args := buildMetricsWhere(f)
	var avg sql.NullFloat64
	if err := d.GetContext(ctx, &avg, d.Rebind(`SELECT AVG(purchase_price) FROM properties`+where), args...); err != nil {
		return 0, false, fmt.Errorf("falha ao calcular preço médio: %w", err)
	}
	return avg.Float64, avg.Valid, nil
}

func (d *DB) RecentProperties(ctx context.Context, f models.MetricsFilter, limit int) ([]models.PropertySummary, error) {
	where, args := buildMetricsWhere(f)
	args = append(args, limit)
	query := `SELECT id, title, location, type, created_at FROM properties` + where +
		` ORDER BY created_at DESC LIMIT ?`

	recent := []models.PropertySummary{}
	if err := d.SelectContext(ctx, &recent, d.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("falha ao buscar imóveis recentes: %w", err)
	}
	return recent, nil
}

func (d *DB) CountByType(ctx context.Context) ([]models.TypeCount, error) {
	counts := []models.TypeCount{}
	query := `SELECT type, COUNT(*) AS count FROM properties GROUP BY type ORDER BY count DESC, type ASC`
	if err := d.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("falha ao agrupar imóveis por tipo: %w", err)
	}
	return counts, nil
}

// buildMetricsWhere monta a cláusula WHERE com placeholders "?" (use Rebind).
func buildMetricsWhere(f models.MetricsFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if f.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, f.Type)
	}
	if f.CreatedFrom != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *f.CreatedFrom)
	}
	if f.CreatedBefore != nil {
		conds = append(conds, "created_at < ?")
		args = append(args, *f.CreatedBefore)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildUpdate monta o UPDATE com placeholders "?". Os nomes de coluna vêm de
// models.PropertyPatch e nunca do cliente.
func buildUpdate(id string, fields []models.PatchField) (string, []interface{}) {
	sets := make([]string, 0, len(fields))
	diffs := make([]string, 0, len(fields))
	args := make([]interface{}, 0, 2*len(fields)+1)

	placeholder := func(name string) string {
		if name == "owners" {
			return "?::jsonb"
		}
		return "?"
	}

	for _, f := range fields {
		sets = append(sets, f.Name+" = "+placeholder(f.Name))
		args = append(args, f.Value)
	}
	args = append(args, id)
	for _, f := range fields {
		diffs = append(diffs, f.Name+" IS DISTINCT FROM "+placeholder(f.Name))
		args = append(args, f.Value)
	}

	query := fmt.Sprintf("UPDATE properties SET %s WHERE id = ? AND (%s)",
		strings.Join(sets, ", "), strings.Join(diffs, " OR "))
	return query, args
}
