package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventapp/internal/domain"
)

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.EventCategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.EventCategory) error {
	query := `
		INSERT INTO event_categories (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, c.Name, c.Description, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCategory
		}
		return err
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.EventCategory, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM event_categories
		WHERE id = $1
	`
	c := &domain.EventCategory{}
	var desc sql.NullString
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &desc, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if desc.Valid {
		c.Description = desc.String
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context, filter domain.CategoryFilter, order domain.SortOrder, p domain.PaginationParams) ([]*domain.EventCategory, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM event_categories`
	args := []any{}
	if filter.NameContains != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+filter.NameContains+"%")
	}
	dir := "ASC"
	if order == domain.SortDesc {
		dir = "DESC"
	}
	query += " ORDER BY name " + dir
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, p.PageSize, p.Offset())

	rows, err := dbtx(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.EventCategory, 0)
	for rows.Next() {
		c := &domain.EventCategory{}
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			c.Description = desc.String
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Count(ctx context.Context, filter domain.CategoryFilter) (int, error) {
	query := `SELECT COUNT(*) FROM event_categories`
	args := []any{}
	if filter.NameContains != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+filter.NameContains+"%")
	}
	var count int
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.EventCategory) error {
	query := `
		UPDATE event_categories
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := dbtx(ctx, r.DB).ExecContext(ctx, query, c.Name, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCategory
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a category. The events.category_id foreign key is RESTRICT,
// so deleting a referenced category surfaces as ErrCategoryInUse.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result, err := dbtx(ctx, r.DB).ExecContext(ctx, `DELETE FROM event_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
