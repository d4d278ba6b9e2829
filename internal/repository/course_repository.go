package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

// Sort keys accepted by course listings, keyed by their public name.
var courseSortColumns = map[string]string{
	"ordrePublication": "c.publication_order",
	"createdAt":        "c.created_at",
	"titre":            "c.title",
	"duree":            "c.duration",
}

const defaultCourseSort = "ordrePublication"

// CourseFilter captures listing parameters.
type CourseFilter struct {
	ModuleID      *string
	ContentFormat *domain.ContentFormat
	Status        *domain.CourseStatus
	Title         *string
	Tags          []string
	SortBy        string
	Desc          bool
	Limit         int
	Offset        int
}

// CourseOrder assigns a publication order to a course.
type CourseOrder struct {
	ID               string
	PublicationOrder int
}

// CourseRepository encapsulates course persistence.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]domain.Course, int, error)
	ListByModule(ctx context.Context, moduleID string) ([]domain.Course, error)
	SetModule(ctx context.Context, courseID string, moduleID *string) error
	DetachModule(ctx context.Context, moduleID string) error
	DeleteByModule(ctx context.Context, moduleID string) (int64, error)
	UpdateOrder(ctx context.Context, order CourseOrder) error
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository instantiates repository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseSelect = `SELECT c.id, c.title, c.description, c.content_format, c.content, c.duration,
                    c.publication_order, c.module_id, m.title, c.status, c.tags, c.created_at, c.updated_at
             FROM courses c LEFT JOIN modules m ON m.id = c.module_id`

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (title, description, content_format, content, duration, publication_order, module_id, status, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.ContentFormat,
		jsonParam(course.Content),
		course.Duration,
		course.PublicationOrder,
		course.ModuleID,
		course.Status,
		nonNilTags(course.Tags),
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses SET title=$1, description=$2, content_format=$3, content=$4, duration=$5,
            publication_order=$6, module_id=$7, status=$8, tags=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.ContentFormat,
		jsonParam(course.Content),
		course.Duration,
		course.PublicationOrder,
		course.ModuleID,
		course.Status,
		nonNilTags(course.Tags),
		course.ID,
	).Scan(&course.UpdatedAt)
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	return scanCourse(conn(ctx, r.pool).QueryRow(ctx, courseSelect+` WHERE c.id=$1`, id))
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]domain.Course, int, error) {
	listQuery, countQuery, args := buildCourseListQuery(filter)

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	courses, err := scanCourses(rows)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepository) ListByModule(ctx context.Context, moduleID string) ([]domain.Course, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, courseSelect+` WHERE c.module_id=$1 ORDER BY c.publication_order ASC, c.id`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

func (r *courseRepository) SetModule(ctx context.Context, courseID string, moduleID *string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `UPDATE courses SET module_id=$1, updated_at=NOW() WHERE id=$2`, moduleID, courseID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) DetachModule(ctx context.Context, moduleID string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `UPDATE courses SET module_id=NULL, updated_at=NOW() WHERE module_id=$1`, moduleID)
	return err
}

func (r *courseRepository) DeleteByModule(ctx context.Context, moduleID string) (int64, error) {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM courses WHERE module_id=$1`, moduleID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *courseRepository) UpdateOrder(ctx context.Context, order CourseOrder) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE courses SET publication_order=$1, updated_at=NOW() WHERE id=$2`,
		order.PublicationOrder, order.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// buildCourseListQuery returns the paginated listing query, the matching count query and
// their shared arguments.
func buildCourseListQuery(filter CourseFilter) (string, string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ModuleID != nil {
		args = append(args, *filter.ModuleID)
		clauses = append(clauses, fmt.Sprintf("c.module_id=$%d", len(args)))
	}
	if filter.ContentFormat != nil {
		args = append(args, *filter.ContentFormat)
		clauses = append(clauses, fmt.Sprintf("c.content_format=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}
	if filter.Title != nil && strings.TrimSpace(*filter.Title) != "" {
		args = append(args, "%"+escapeLike(strings.TrimSpace(*filter.Title))+"%")
		clauses = append(clauses, fmt.Sprintf("c.title ILIKE $%d", len(args)))
	}
	if len(filter.Tags) > 0 {
		args = append(args, filter.Tags)
		clauses = append(clauses, fmt.Sprintf("c.tags && $%d", len(args)))
	}

	column, ok := courseSortColumns[filter.SortBy]
	if !ok {
		column = courseSortColumns[defaultCourseSort]
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	where := strings.Join(clauses, " AND ")
	listQuery := fmt.Sprintf(`%s WHERE %s ORDER BY %s %s, c.id LIMIT %d OFFSET %d`,
		courseSelect, where, column, direction, limit, offset)
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM courses c WHERE %s`, where)
	return listQuery, countQuery, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func jsonParam(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var (
		course  domain.Course
		content []byte
	)
	if err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.ContentFormat,
		&content,
		&course.Duration,
		&course.PublicationOrder,
		&course.ModuleID,
		&course.ModuleTitle,
		&course.Status,
		&course.Tags,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		return nil, err
	}
	course.Content = content
	return &course, nil
}

func scanCourses(rows pgx.Rows) ([]domain.Course, error) {
	result := []domain.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *course)
	}
	return result, rows.Err()
}
