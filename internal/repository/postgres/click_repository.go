package postgres

import (
	"context"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClickRepository struct {
	db *pgxpool.Pool
}

func NewClickRepository(db *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{db: db}
}

// RecordClick inserts the click and bumps the link's counters in one
// transaction. visitor_count only moves when newVisitor is set.
func (r *ClickRepository) RecordClick(ctx context.Context, click *domain.Click, newVisitor bool) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO clicks (link_id, ip_address, user_agent, referer, device_type, country)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, clicked_at
		`
		err := tx.QueryRow(ctx, insert,
			click.LinkID,
			click.IPAddress,
			click.UserAgent,
			click.Referer,
			click.Device,
			click.Country,
		).Scan(&click.ID, &click.Timestamp)
		if err != nil {
			return err
		}

		visitorDelta := 0
		if newVisitor {
			visitorDelta = 1
		}

		_, err = tx.Exec(ctx,
			`UPDATE links SET click_count = click_count + 1, visitor_count = visitor_count + $2 WHERE id = $1`,
			click.LinkID, visitorDelta,
		)
		return err
	})
}

// RecentByUser returns the user's newest clicks across all links, joined with
// the owning link's name and slug.
func (r *ClickRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Click, error) {
	query := `
		SELECT c.id, c.link_id, c.clicked_at, c.user_agent, c.referer, c.device_type, c.country, l.name, l.slug
		FROM clicks c
		JOIN links l ON l.id = c.link_id
		WHERE l.user_id = $1
		ORDER BY c.clicked_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clicks := []domain.Click{}
	for rows.Next() {
		var c domain.Click
		if err := rows.Scan(&c.ID, &c.LinkID, &c.Timestamp, &c.UserAgent, &c.Referer, &c.Device, &c.Country, &c.LinkName, &c.LinkSlug); err != nil {
			return nil, err
		}
		clicks = append(clicks, c)
	}

	return clicks, rows.Err()
}

func (r *ClickRepository) History(ctx context.Context, linkID string, page, pageSize int) (*domain.ClickHistory, error) {
	offset := (page - 1) * pageSize

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clicks WHERE link_id = $1`, linkID).Scan(&total)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, link_id, clicked_at, user_agent, referer, device_type, country
		FROM clicks
		WHERE link_id = $1
		ORDER BY clicked_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, linkID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clicks := []domain.Click{}
	for rows.Next() {
		var c domain.Click
		if err := rows.Scan(&c.ID, &c.LinkID, &c.Timestamp, &c.UserAgent, &c.Referer, &c.Device, &c.Country); err != nil {
			return nil, err
		}
		clicks = append(clicks, c)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &domain.ClickHistory{
		Clicks:     clicks,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, rows.Err()
}
