// Package content provides content repositories
package content

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/interfaces"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

type PageRepository struct {
	db     *sql.DB
	cache  interfaces.ContentCache
	logger *logging.ChanneledLogger
}

func NewPageRepository(db *sql.DB, cache interfaces.ContentCache, logger *logging.ChanneledLogger) *PageRepository {
	return &PageRepository{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

func (r *PageRepository) FindByID(id string) (*content.PageNode, error) {
	if page, found := r.cache.GetPage(id); found {
		return page, nil
	}

	page, err := r.loadFromDB(id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, nil
	}

	r.cache.SetPage(page)
	return page, nil
}

func (r *PageRepository) FindBySlug(slug string) (*content.PageNode, error) {
	if id, found := r.cache.GetPageIDBySlug(slug); found {
		return r.FindByID(id)
	}

	page, err := r.loadBySlugFromDB(slug)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, nil
	}

	r.cache.SetPage(page)
	return page, nil
}

func (r *PageRepository) FindByIDs(ids []string) ([]*content.PageNode, error) {
	var result []*content.PageNode
	var missingIDs []string

	for _, id := range ids {
		if page, found := r.cache.GetPage(id); found {
			result = append(result, page)
		} else {
			missingIDs = append(missingIDs, id)
		}
	}

	if len(missingIDs) > 0 {
		missing, err := r.loadMultipleFromDB(missingIDs)
		if err != nil {
			return nil, err
		}
		for _, page := range missing {
			r.cache.SetPage(page)
			result = append(result, page)
		}
	}

	return result, nil
}

func (r *PageRepository) FindAll() ([]*content.PageNode, error) {
	if ids, found := r.cache.GetAllPageIDs(); found {
		return r.FindByIDs(ids)
	}

	ids, err := r.loadAllIDsFromDB()
	if err != nil {
		return nil, err
	}

	pages, err := r.loadMultipleFromDB(ids)
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		r.cache.SetPage(page)
	}
	r.cache.SetAllPageIDs(ids)

	return pages, nil
}

func (r *PageRepository) Store(page *content.PageNode) error {
	optionsPayload, err := marshalOptionsPayload(page.OptionsPayload)
	if err != nil {
		return err
	}

	query := `INSERT INTO pages (id, title, slug, status, weight, parent_id, markup, stylesheet, options_payload, created, changed)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	defer timeQuery(r.logger, query, time.Now())

	_, err = r.db.Exec(query, page.ID, page.Title, page.Slug, page.Status, page.Weight,
		page.ParentID, page.Markup, page.Stylesheet, optionsPayload, page.Created, page.Changed)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}

	r.cache.SetPage(page)
	r.cache.AddPageID(page.ID)
	return nil
}

func (r *PageRepository) Update(page *content.PageNode) error {
	optionsPayload, err := marshalOptionsPayload(page.OptionsPayload)
	if err != nil {
		return err
	}

	query := `UPDATE pages SET title = ?, slug = ?, status = ?, weight = ?, parent_id = ?,
              markup = ?, stylesheet = ?, options_payload = ?, changed = ? WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	_, err = r.db.Exec(query, page.Title, page.Slug, page.Status, page.Weight, page.ParentID,
		page.Markup, page.Stylesheet, optionsPayload, page.Changed, page.ID)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}

	r.cache.InvalidatePage(page.ID)
	r.cache.SetPage(page)
	return nil
}

func (r *PageRepository) Delete(id string) error {
	query := `DELETE FROM pages WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	r.cache.InvalidatePage(id)
	r.cache.RemovePageID(id)
	return nil
}

func (r *PageRepository) loadAllIDsFromDB() ([]string, error) {
	query := `SELECT id FROM pages ORDER BY weight, title`
	defer timeQuery(r.logger, query, time.Now())

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pageIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan page ID: %w", err)
		}
		pageIDs = append(pageIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return pageIDs, nil
}

const pageColumns = `id, title, slug, status, weight, parent_id, markup, stylesheet, options_payload, created, changed`

func (r *PageRepository) loadFromDB(id string) (*content.PageNode, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())
	return scanPage(r.db.QueryRow(query, id))
}

func (r *PageRepository) loadBySlugFromDB(slug string) (*content.PageNode, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE slug = ?`
	defer timeQuery(r.logger, query, time.Now())
	return scanPage(r.db.QueryRow(query, slug))
}

func (r *PageRepository) loadMultipleFromDB(ids []string) ([]*content.PageNode, error) {
	if len(ids) == 0 {
		return []*content.PageNode{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + pageColumns + ` FROM pages WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	defer timeQuery(r.logger, query, time.Now())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []*content.PageNode
	for rows.Next() {
		page, err := scanPageRow(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row *sql.Row) (*content.PageNode, error) {
	page, err := scanPageRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return page, err
}

func scanPageRow(s rowScanner) (*content.PageNode, error) {
	var page content.PageNode
	var parentID sql.NullString
	var optionsPayload string
	var changed sql.NullTime

	err := s.Scan(&page.ID, &page.Title, &page.Slug, &page.Status, &page.Weight,
		&parentID, &page.Markup, &page.Stylesheet, &optionsPayload, &page.Created, &changed)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}

	if parentID.Valid {
		page.ParentID = &parentID.String
	}
	if changed.Valid {
		changedAt := changed.Time
		page.Changed = &changedAt
	}
	if optionsPayload != "" {
		if err := json.Unmarshal([]byte(optionsPayload), &page.OptionsPayload); err != nil {
			return nil, fmt.Errorf("failed to decode page options payload: %w", err)
		}
	}

	page.NodeType = "Page"
	return &page, nil
}

func marshalOptionsPayload(payload map[string]any) (string, error) {
	if payload == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode options payload: %w", err)
	}
	return string(raw), nil
}
