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

type ImageFileRepository struct {
	db     *sql.DB
	cache  interfaces.ContentCache
	logger *logging.ChanneledLogger
}

func NewImageFileRepository(db *sql.DB, cache interfaces.ContentCache, logger *logging.ChanneledLogger) *ImageFileRepository {
	return &ImageFileRepository{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

func (r *ImageFileRepository) FindByID(id string) (*content.ImageFileNode, error) {
	if file, found := r.cache.GetFile(id); found {
		return file, nil
	}

	file, err := r.loadFromDB(id)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, nil
	}

	r.cache.SetFile(file)
	return file, nil
}

func (r *ImageFileRepository) FindByIDs(ids []string) ([]*content.ImageFileNode, error) {
	var result []*content.ImageFileNode
	var missingIDs []string

	for _, id := range ids {
		if file, found := r.cache.GetFile(id); found {
			result = append(result, file)
		} else {
			missingIDs = append(missingIDs, id)
		}
	}

	if len(missingIDs) > 0 {
		missing, err := r.loadMultipleFromDB(missingIDs)
		if err != nil {
			return nil, err
		}
		for _, file := range missing {
			r.cache.SetFile(file)
			result = append(result, file)
		}
	}

	return result, nil
}

func (r *ImageFileRepository) FindAll() ([]*content.ImageFileNode, error) {
	if ids, found := r.cache.GetAllFileIDs(); found {
		return r.FindByIDs(ids)
	}

	ids, err := r.loadAllIDsFromDB()
	if err != nil {
		return nil, err
	}

	files, err := r.loadMultipleFromDB(ids)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		r.cache.SetFile(file)
	}
	r.cache.SetAllFileIDs(ids)

	return files, nil
}

func (r *ImageFileRepository) Store(file *content.ImageFileNode) error {
	query := `INSERT INTO files (id, filename, alt_description, url, src_set, width, height)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, file.ID, file.Filename, file.AltDescription,
		file.URL, file.SrcSet, file.Width, file.Height)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}

	r.cache.SetFile(file)
	r.cache.AddFileID(file.ID)
	return nil
}

func (r *ImageFileRepository) Update(file *content.ImageFileNode) error {
	query := `UPDATE files SET filename = ?, alt_description = ?, url = ?, src_set = ?, width = ?, height = ? WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, file.Filename, file.AltDescription, file.URL,
		file.SrcSet, file.Width, file.Height, file.ID)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}

	r.cache.InvalidateFile(file.ID)
	r.cache.SetFile(file)
	return nil
}

func (r *ImageFileRepository) Delete(id string) error {
	query := `DELETE FROM files WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	r.cache.InvalidateFile(id)
	r.cache.RemoveFileID(id)
	return nil
}

func (r *ImageFileRepository) loadAllIDsFromDB() ([]string, error) {
	query := `SELECT id FROM files ORDER BY filename`
	defer timeQuery(r.logger, query, time.Now())

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var fileIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan file ID: %w", err)
		}
		fileIDs = append(fileIDs, id)
	}

	return fileIDs, rows.Err()
}

const fileColumns = `id, filename, alt_description, url, src_set, width, height`

func (r *ImageFileRepository) loadFromDB(id string) (*content.ImageFileNode, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	file, err := scanFileRow(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return file, err
}

func (r *ImageFileRepository) loadMultipleFromDB(ids []string) ([]*content.ImageFileNode, error) {
	if len(ids) == 0 {
		return []*content.ImageFileNode{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + fileColumns + ` FROM files WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	defer timeQuery(r.logger, query, time.Now())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []*content.ImageFileNode
	for rows.Next() {
		file, err := scanFileRow(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

func scanFileRow(s rowScanner) (*content.ImageFileNode, error) {
	var file content.ImageFileNode
	var altDescription, srcSet sql.NullString

	err := s.Scan(&file.ID, &file.Filename, &altDescription, &file.URL,
		&srcSet, &file.Width, &file.Height)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan file: %w", err)
	}

	if altDescription.Valid {
		file.AltDescription = altDescription.String
	}
	if srcSet.Valid {
		file.SrcSet = &srcSet.String
	}

	file.NodeType = "File"
	return &file, nil
}
