package content

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/interfaces"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

type NewsRepository struct {
	db     *sql.DB
	cache  interfaces.ContentCache
	logger *logging.ChanneledLogger
}

func NewNewsRepository(db *sql.DB, cache interfaces.ContentCache, logger *logging.ChanneledLogger) *NewsRepository {
	return &NewsRepository{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

func (r *NewsRepository) FindByID(id string) (*content.NewsNode, error) {
	if news, found := r.cache.GetNews(id); found {
		return news, nil
	}

	news, err := r.loadFromDB(id)
	if err != nil {
		return nil, err
	}
	if news == nil {
		return nil, nil
	}

	r.cache.SetNews(news)
	return news, nil
}

func (r *NewsRepository) FindBySlug(slug string) (*content.NewsNode, error) {
	if id, found := r.cache.GetNewsIDBySlug(slug); found {
		return r.FindByID(id)
	}

	news, err := r.loadBySlugFromDB(slug)
	if err != nil {
		return nil, err
	}
	if news == nil {
		return nil, nil
	}

	r.cache.SetNews(news)
	return news, nil
}

func (r *NewsRepository) FindAll() ([]*content.NewsNode, error) {
	if ids, found := r.cache.GetAllNewsIDs(); found {
		return r.findByIDs(ids)
	}

	ids, err := r.loadAllIDsFromDB()
	if err != nil {
		return nil, err
	}

	entries, err := r.loadMultipleFromDB(ids)
	if err != nil {
		return nil, err
	}

	for _, news := range entries {
		r.cache.SetNews(news)
	}
	r.cache.SetAllNewsIDs(ids)

	return entries, nil
}

func (r *NewsRepository) Store(news *content.NewsNode) error {
	query := `INSERT INTO news (id, title, slug, body, published_at, created, changed)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, news.ID, news.Title, news.Slug, news.Body,
		news.PublishedAt, news.Created, news.Changed)
	if err != nil {
		return fmt.Errorf("failed to insert news entry: %w", err)
	}

	r.cache.SetNews(news)
	r.cache.AddNewsID(news.ID)
	return nil
}

func (r *NewsRepository) Update(news *content.NewsNode) error {
	query := `UPDATE news SET title = ?, slug = ?, body = ?, published_at = ?, changed = ? WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, news.Title, news.Slug, news.Body,
		news.PublishedAt, news.Changed, news.ID)
	if err != nil {
		return fmt.Errorf("failed to update news entry: %w", err)
	}

	r.cache.InvalidateNews(news.ID)
	r.cache.SetNews(news)
	return nil
}

func (r *NewsRepository) Delete(id string) error {
	query := `DELETE FROM news WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete news entry: %w", err)
	}

	r.cache.InvalidateNews(id)
	r.cache.RemoveNewsID(id)
	return nil
}

func (r *NewsRepository) findByIDs(ids []string) ([]*content.NewsNode, error) {
	var result []*content.NewsNode
	var missingIDs []string

	for _, id := range ids {
		if news, found := r.cache.GetNews(id); found {
			result = append(result, news)
		} else {
			missingIDs = append(missingIDs, id)
		}
	}

	if len(missingIDs) > 0 {
		missing, err := r.loadMultipleFromDB(missingIDs)
		if err != nil {
			return nil, err
		}
		for _, news := range missing {
			r.cache.SetNews(news)
			result = append(result, news)
		}
	}

	return result, nil
}

func (r *NewsRepository) loadAllIDsFromDB() ([]string, error) {
	query := `SELECT id FROM news ORDER BY created DESC`
	defer timeQuery(r.logger, query, time.Now())

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	var newsIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan news ID: %w", err)
		}
		newsIDs = append(newsIDs, id)
	}

	return newsIDs, rows.Err()
}

const newsColumns = `id, title, slug, body, published_at, created, changed`

func (r *NewsRepository) loadFromDB(id string) (*content.NewsNode, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())
	return scanNews(r.db.QueryRow(query, id))
}

func (r *NewsRepository) loadBySlugFromDB(slug string) (*content.NewsNode, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE slug = ?`
	defer timeQuery(r.logger, query, time.Now())
	return scanNews(r.db.QueryRow(query, slug))
}

func (r *NewsRepository) loadMultipleFromDB(ids []string) ([]*content.NewsNode, error) {
	if len(ids) == 0 {
		return []*content.NewsNode{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + newsColumns + ` FROM news WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	defer timeQuery(r.logger, query, time.Now())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	var entries []*content.NewsNode
	for rows.Next() {
		news, err := scanNewsRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, news)
	}

	return entries, rows.Err()
}

func scanNews(row *sql.Row) (*content.NewsNode, error) {
	news, err := scanNewsRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return news, err
}

func scanNewsRow(s rowScanner) (*content.NewsNode, error) {
	var news content.NewsNode
	var publishedAt, changed sql.NullTime

	err := s.Scan(&news.ID, &news.Title, &news.Slug, &news.Body,
		&publishedAt, &news.Created, &changed)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan news entry: %w", err)
	}

	if publishedAt.Valid {
		at := publishedAt.Time
		news.PublishedAt = &at
	}
	if changed.Valid {
		changedAt := changed.Time
		news.Changed = &changedAt
	}

	news.NodeType = "News"
	return &news, nil
}
