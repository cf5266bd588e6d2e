package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ WorkRepository = (*WorkRepositoryImpl)(nil)

type WorkRepositoryImpl struct {
	db *DB
}

func NewWorkRepository(db *DB) *WorkRepositoryImpl {
	return &WorkRepositoryImpl{db: db}
}

// ExistsBySourceURL reports whether any work was already imported from the
// given source URL. This is the only dedup guard; there is no UNIQUE
// constraint backing it.
func (r *WorkRepositoryImpl) ExistsBySourceURL(sourceURL string) (bool, error) {
	var id string
	err := r.db.QueryRow(`
		SELECT id FROM works WHERE source_url = ? LIMIT 1
	`, sourceURL).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check work existence: %w", err)
	}
	return true, nil
}

func (r *WorkRepositoryImpl) Create(work Work) (*Work, error) {
	work.ID = uuid.NewString()
	work.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO works (id, title, author, description, cover_image_url,
			original_publish_date, nature, work_type, link, source_url,
			source_platform, source_id, is_auto_imported, imported_at,
			is_active, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, work.ID, work.Title, work.Author, work.Description, work.CoverImageURL,
		work.OriginalPublishDate, work.Nature, work.WorkType, work.Link, work.SourceURL,
		work.SourcePlatform, work.SourceID, work.IsAutoImported, work.ImportedAt,
		work.IsActive, work.PublishedAt, work.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create work: %w", err)
	}

	return &work, nil
}

func (r *WorkRepositoryImpl) GetPublished(limit, offset int) ([]Work, error) {
	rows, err := r.db.Query(`
		SELECT id, title, author, description, cover_image_url,
		       original_publish_date, nature, work_type, link, source_url,
		       source_platform, source_id, is_auto_imported, imported_at,
		       is_active, published_at, created_at
		FROM works
		WHERE is_active = 1
		  AND published_at IS NOT NULL
		ORDER BY published_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get published works: %w", err)
	}
	defer rows.Close()

	var works []Work
	for rows.Next() {
		var work Work
		err := rows.Scan(
			&work.ID, &work.Title, &work.Author, &work.Description, &work.CoverImageURL,
			&work.OriginalPublishDate, &work.Nature, &work.WorkType, &work.Link, &work.SourceURL,
			&work.SourcePlatform, &work.SourceID, &work.IsAutoImported, &work.ImportedAt,
			&work.IsActive, &work.PublishedAt, &work.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work row: %w", err)
		}
		works = append(works, work)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work rows: %w", err)
	}

	return works, nil
}

func (r *WorkRepositoryImpl) GetCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM works").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get work count: %w", err)
	}
	return count, nil
}
