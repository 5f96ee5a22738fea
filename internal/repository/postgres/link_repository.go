package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const linkColumns = `
	id, user_id, slug, url, normalized_url, name, password, enabled,
	click_count, visitor_count, created_at, updated_at, starts_at, expires_at`

type LinkRepository struct {
	db *pgxpool.Pool
}

func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	query := `
		INSERT INTO links (id, user_id, slug, url, normalized_url, name, password, enabled, starts_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		link.ID,
		link.UserID,
		link.Slug,
		link.URL,
		link.NormalizedURL,
		link.Name,
		link.Password,
		link.Enabled,
		link.StartsAt,
		link.ExpiresAt,
	).Scan(&link.CreatedAt, &link.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "links_slug_key" {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *LinkRepository) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	if !validID(id) {
		return nil, domain.ErrLinkNotFound
	}
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`
	return scanLink(r.db.QueryRow(ctx, query, id))
}

func (r *LinkRepository) GetBySlug(ctx context.Context, slug string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE slug = $1`
	return scanLink(r.db.QueryRow(ctx, query, slug))
}

func (r *LinkRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM links WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *LinkRepository) URLExists(ctx context.Context, userID, normalizedURL string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM links WHERE user_id = $1 AND normalized_url = $2)`,
		userID, normalizedURL,
	).Scan(&exists)
	return exists, err
}

func (r *LinkRepository) ListByUser(ctx context.Context, userID string, order domain.LinkOrder) ([]domain.Link, error) {
	orderBy := "created_at DESC"
	if order == domain.OrderByClickCount {
		orderBy = "click_count DESC, created_at DESC"
	}

	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1 ORDER BY ` + orderBy

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}

	return links, rows.Err()
}

func (r *LinkRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return r.execOne(ctx, `UPDATE links SET enabled = $2, updated_at = NOW() WHERE id = $1`, id, enabled)
}

func (r *LinkRepository) Rename(ctx context.Context, id, name string) error {
	return r.execOne(ctx, `UPDATE links SET name = $2, updated_at = NOW() WHERE id = $1`, id, name)
}

// Delete removes the link; its clicks go with it through the foreign key's
// ON DELETE CASCADE.
func (r *LinkRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM links WHERE id = $1`, id)
}

// validID reports whether id can address a row at all. Anything that is not a
// UUID cannot be bound to the id column and is simply not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// execOne runs a statement whose first parameter is the link id and reports
// ErrLinkNotFound when no row was touched.
func (r *LinkRepository) execOne(ctx context.Context, query, id string, args ...any) error {
	if !validID(id) {
		return domain.ErrLinkNotFound
	}
	tag, err := r.db.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func scanLink(row pgx.Row) (*domain.Link, error) {
	var link domain.Link

	err := row.Scan(
		&link.ID,
		&link.UserID,
		&link.Slug,
		&link.URL,
		&link.NormalizedURL,
		&link.Name,
		&link.Password,
		&link.Enabled,
		&link.ClickCount,
		&link.VisitorCount,
		&link.CreatedAt,
		&link.UpdatedAt,
		&link.StartsAt,
		&link.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan link: %w", err)
	}

	return &link, nil
}
