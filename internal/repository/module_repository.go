package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

var moduleSortColumns = map[string]string{
	"createdAt": "m.created_at",
	"titre":     "m.title",
}

// ModuleFilter captures listing parameters.
type ModuleFilter struct {
	Title  *string
	SortBy string
	Asc    bool
	Limit  int
	Offset int
}

// ModuleRepository encapsulates module persistence.
type ModuleRepository interface {
	Create(ctx context.Context, module *domain.Module) error
	Update(ctx context.Context, module *domain.Module) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Module, error)
	List(ctx context.Context, filter ModuleFilter) ([]domain.Module, int, error)
}

type moduleRepository struct {
	pool *pgxpool.Pool
}

// NewModuleRepository instantiates repository.
func NewModuleRepository(pool *pgxpool.Pool) ModuleRepository {
	return &moduleRepository{pool: pool}
}

const moduleSelect = `SELECT m.id, m.title, m.description, m.image,
                    COALESCE((SELECT array_agg(c.id::text ORDER BY c.publication_order, c.id)
                              FROM courses c WHERE c.module_id = m.id), '{}'::text[]),
                    m.created_at, m.updated_at
             FROM modules m`

func (r *moduleRepository) Create(ctx context.Context, module *domain.Module) error {
	const query = `
        INSERT INTO modules (title, description, image)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		module.Title,
		module.Description,
		module.Image,
	).Scan(&module.ID, &module.CreatedAt, &module.UpdatedAt)
}

func (r *moduleRepository) Update(ctx context.Context, module *domain.Module) error {
	const query = `
        UPDATE modules SET title=$1, description=$2, image=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		module.Title,
		module.Description,
		module.Image,
		module.ID,
	).Scan(&module.UpdatedAt)
}

func (r *moduleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM modules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *moduleRepository) GetByID(ctx context.Context, id string) (*domain.Module, error) {
	return scanModule(conn(ctx, r.pool).QueryRow(ctx, moduleSelect+` WHERE m.id=$1`, id))
}

func (r *moduleRepository) List(ctx context.Context, filter ModuleFilter) ([]domain.Module, int, error) {
	listQuery, countQuery, args := buildModuleListQuery(filter)

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := []domain.Module{}
	for rows.Next() {
		module, err := scanModule(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *module)
	}
	return result, total, rows.Err()
}

func buildModuleListQuery(filter ModuleFilter) (string, string, []any) {
	where := "1=1"
	args := []any{}
	if filter.Title != nil && strings.TrimSpace(*filter.Title) != "" {
		args = append(args, "%"+escapeLike(strings.TrimSpace(*filter.Title))+"%")
		where += fmt.Sprintf(" AND m.title ILIKE $%d", len(args))
	}

	column, ok := moduleSortColumns[filter.SortBy]
	if !ok {
		column = moduleSortColumns["createdAt"]
	}
	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	listQuery := fmt.Sprintf(`%s WHERE %s ORDER BY %s %s, m.id LIMIT %d OFFSET %d`,
		moduleSelect, where, column, direction, limit, offset)
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM modules m WHERE %s`, where)
	return listQuery, countQuery, args
}

func scanModule(row pgx.Row) (*domain.Module, error) {
	var module domain.Module
	if err := row.Scan(
		&module.ID,
		&module.Title,
		&module.Description,
		&module.Image,
		&module.CourseIDs,
		&module.CreatedAt,
		&module.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &module, nil
}
