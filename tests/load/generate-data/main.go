package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gamassss/linkdash/internal/config"
	"github.com/gamassss/linkdash/pkg/detector"
	"github.com/gamassss/linkdash/pkg/generator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	USER_COUNT      = 50
	LINKS_PER_USER  = 200
	CLICKS_PER_LINK = 100

	BATCH_SIZE  = 5000
	NUM_WORKERS = 4

	MIGRATION_PATH = "migrations/0001_create_links_table.up.sql"
)

var (
	countries = []string{"US", "ID", "DE", "GB", "FR", "JP", "BR", "IN", "CA", "AU"}
	devices   = []detector.DeviceType{detector.DeviceDesktop, detector.DeviceMobile, detector.DeviceTablet, detector.DeviceBot}
	referers  = []string{"", "https://news.ycombinator.com", "https://twitter.com", "https://www.google.com"}
)

type DataGenerator struct {
	pool *pgxpool.Pool
	now  time.Time
}

type seededLink struct {
	id        string
	createdAt time.Time
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	gen := &DataGenerator{pool: pool, now: time.Now().UTC()}

	if err := gen.createSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v\n", err)
	}

	if err := gen.clearData(ctx); err != nil {
		log.Fatalf("Failed to clear data: %v\n", err)
	}

	links, err := gen.insertLinks(ctx)
	if err != nil {
		log.Fatalf("Failed to insert links: %v\n", err)
	}

	if err := gen.insertClicksParallel(ctx, links); err != nil {
		log.Fatalf("Failed to insert clicks: %v\n", err)
	}

	if err := gen.refreshCounters(ctx); err != nil {
		log.Fatalf("Failed to refresh counters: %v\n", err)
	}

	if err := gen.verifyData(ctx); err != nil {
		log.Printf("Warning: Data verification failed: %v\n", err)
	}
}

func (g *DataGenerator) createSchema(ctx context.Context) error {
	schema, err := os.ReadFile(filepath.Clean(MIGRATION_PATH))
	if err != nil {
		return err
	}
	_, err = g.pool.Exec(ctx, string(schema))
	return err
}

func (g *DataGenerator) clearData(ctx context.Context) error {
	_, err := g.pool.Exec(ctx, "TRUNCATE links, clicks RESTART IDENTITY")
	return err
}

// insertLinks spreads link ages over the last 120 days and mixes in disabled,
// expired and scheduled links so every dashboard filter has something to show.
func (g *DataGenerator) insertLinks(ctx context.Context) ([]seededLink, error) {
	links := make([]seededLink, 0, USER_COUNT*LINKS_PER_USER)
	batch := &pgx.Batch{}

	for u := 1; u <= USER_COUNT; u++ {
		userID := fmt.Sprintf("user_%04d", u)

		for i := 1; i <= LINKS_PER_USER; i++ {
			slug, err := generator.GenerateShortCode()
			if err != nil {
				return nil, err
			}

			url := fmt.Sprintf("https://example.com/%s/page/%04d", userID, i)
			createdAt := g.now.Add(-time.Duration(rand.IntN(120*24)) * time.Hour)
			link := seededLink{id: uuid.NewString(), createdAt: createdAt}

			var startsAt, expiresAt *time.Time
			switch i % 10 {
			case 7:
				past := g.now.Add(-time.Duration(rand.IntN(72)+1) * time.Hour)
				expiresAt = &past
			case 8:
				future := g.now.Add(time.Duration(rand.IntN(72)+1) * time.Hour)
				startsAt = &future
			default:
				startsAt = &createdAt
			}

			batch.Queue(
				`INSERT INTO links (id, user_id, slug, url, normalized_url, name, enabled, created_at, updated_at, starts_at, expires_at)
				 VALUES ($1, $2, $3, $4, $4, $5, $6, $7, $7, $8, $9)`,
				link.id, userID, slug, url, fmt.Sprintf("Link %d", i), i%10 != 9, createdAt, startsAt, expiresAt,
			)
			links = append(links, link)

			if batch.Len() >= BATCH_SIZE {
				if err := g.sendBatch(ctx, batch); err != nil {
					return nil, err
				}
				batch = &pgx.Batch{}
			}
		}
	}

	if err := g.sendBatch(ctx, batch); err != nil {
		return nil, err
	}

	return links, nil
}

func (g *DataGenerator) insertClicksParallel(ctx context.Context, links []seededLink) error {
	var wg sync.WaitGroup
	errChan := make(chan error, NUM_WORKERS)

	perWorker := (len(links) + NUM_WORKERS - 1) / NUM_WORKERS

	for workerID := 0; workerID < NUM_WORKERS; workerID++ {
		start := workerID * perWorker
		end := min(start+perWorker, len(links))
		if start >= end {
			break
		}

		wg.Add(1)
		go func(id int, chunk []seededLink) {
			defer wg.Done()

			if err := g.insertClicks(ctx, chunk); err != nil {
				errChan <- fmt.Errorf("worker %d failed: %w", id, err)
			}
		}(workerID, links[start:end])
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		return err
	}

	return nil
}

func (g *DataGenerator) insertClicks(ctx context.Context, links []seededLink) error {
	batch := &pgx.Batch{}

	for _, link := range links {
		age := g.now.Sub(link.createdAt)
		clicks := rand.IntN(CLICKS_PER_LINK + 1)

		for c := 0; c < clicks; c++ {
			clickedAt := link.createdAt.Add(time.Duration(rand.Int64N(int64(age) + 1)))
			ip := fmt.Sprintf("198.51.%d.%d", rand.IntN(256), rand.IntN(256))

			var country *string
			if rand.IntN(10) > 0 {
				code := countries[rand.IntN(len(countries))]
				country = &code
			}

			batch.Queue(
				`INSERT INTO clicks (link_id, clicked_at, ip_address, user_agent, referer, device_type, country)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				link.id, clickedAt, ip, "load-generator", referers[rand.IntN(len(referers))],
				string(devices[rand.IntN(len(devices))]), country,
			)

			if batch.Len() >= BATCH_SIZE {
				if err := g.sendBatch(ctx, batch); err != nil {
					return err
				}
				batch = &pgx.Batch{}
			}
		}
	}

	return g.sendBatch(ctx, batch)
}

func (g *DataGenerator) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	br := g.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec failed: %w", err)
		}
	}

	return nil
}

// refreshCounters derives click_count and visitor_count from the seeded clicks,
// counting distinct IPs as visitors.
func (g *DataGenerator) refreshCounters(ctx context.Context) error {
	query := `
		UPDATE links l
		SET click_count = s.clicks, visitor_count = s.visitors
		FROM (
			SELECT link_id, COUNT(*) AS clicks, COUNT(DISTINCT ip_address) AS visitors
			FROM clicks
			GROUP BY link_id
		) s
		WHERE s.link_id = l.id
	`
	if _, err := g.pool.Exec(ctx, query); err != nil {
		return err
	}

	_, err := g.pool.Exec(ctx, "ANALYZE links, clicks")
	return err
}

func (g *DataGenerator) verifyData(ctx context.Context) error {
	var count int64
	err := g.pool.QueryRow(ctx, "SELECT COUNT(*) FROM links").Scan(&count)
	if err != nil {
		return err
	}

	expected := int64(USER_COUNT * LINKS_PER_USER)
	if count != expected {
		return fmt.Errorf("expected %d links but got %d", expected, count)
	}

	var mismatched int64
	err = g.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM links l
		WHERE l.click_count <> (SELECT COUNT(*) FROM clicks c WHERE c.link_id = l.id)
	`).Scan(&mismatched)
	if err != nil {
		return err
	}
	if mismatched > 0 {
		return fmt.Errorf("%d links have stale click counters", mismatched)
	}

	return nil
}
