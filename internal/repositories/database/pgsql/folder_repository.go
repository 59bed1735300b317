package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	"github.com/ememohq/ememo_backend/internal/models"
	"github.com/ememohq/ememo_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFolderRepository persists folders and folder-document associations.
type PgxFolderRepository struct {
	BaseRepository
}

// NewPgxFolderRepository creates a new repository for folder data.
func NewPgxFolderRepository(pool *pgxpool.Pool) portsrepo.FolderRepositoryFacade {
	return &PgxFolderRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxFolderRepository implements the facade
var _ portsrepo.FolderRepositoryFacade = (*PgxFolderRepository)(nil)

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var m models.Folder
	var parentID sql.NullString
	err := row.Scan(
		&m.FolderID,
		&m.OwnerID,
		&m.Name,
		&parentID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.ParentFolderID = parentID.String
	return &m, nil
}

const folderColumns = `folder_id, owner_id, name, parent_folder_id, created_at, created_by, last_updated_at, last_updated_by`

// SaveFolder inserts a new folder.
func (r *PgxFolderRepository) SaveFolder(ctx context.Context, folder domain.Folder) error {
	m := mapping.ToModelFolder(folder)

	query := `
		INSERT INTO folders (folder_id, owner_id, name, parent_folder_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FolderID,
		m.OwnerID,
		m.Name,
		nullableString(m.ParentFolderID),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: folder with ID %s already exists", apperrors.ErrDuplicate, m.FolderID)
		}
		return fmt.Errorf("failed to save folder %s: %w", m.FolderID, err)
	}
	return nil
}

// FindFolderByID retrieves a folder by its ID.
func (r *PgxFolderRepository) FindFolderByID(ctx context.Context, folderID string) (*domain.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE folder_id = $1;`

	m, err := scanFolder(r.Pool.QueryRow(ctx, query, folderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find folder %s: %w", folderID, err)
	}

	folder := mapping.ToDomainFolder(*m)
	return &folder, nil
}

// ListFoldersByOwner retrieves every folder owned by ownerID.
func (r *PgxFolderRepository) ListFoldersByOwner(ctx context.Context, ownerID string) ([]domain.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE owner_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var folders []domain.Folder
	for rows.Next() {
		m, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		folders = append(folders, mapping.ToDomainFolder(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folders: %w", err)
	}
	return folders, nil
}

// ListFoldersWithCounts retrieves every folder owned by ownerID annotated
// with its direct document and subfolder counts, computed at read time.
func (r *PgxFolderRepository) ListFoldersWithCounts(ctx context.Context, ownerID string) ([]domain.FolderWithCounts, error) {
	query := `
		SELECT f.folder_id, f.owner_id, f.name, f.parent_folder_id,
		       f.created_at, f.created_by, f.last_updated_at, f.last_updated_by,
		       (SELECT COUNT(*) FROM folder_documents fd WHERE fd.folder_id = f.folder_id) AS document_count,
		       (SELECT COUNT(*) FROM folders c WHERE c.parent_folder_id = f.folder_id) AS subfolder_count
		FROM folders f
		WHERE f.owner_id = $1
		ORDER BY f.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders with counts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var out []domain.FolderWithCounts
	for rows.Next() {
		var m models.Folder
		var parentID sql.NullString
		var docCount, subCount int64
		err := rows.Scan(
			&m.FolderID,
			&m.OwnerID,
			&m.Name,
			&parentID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&docCount,
			&subCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder counts row: %w", err)
		}
		m.ParentFolderID = parentID.String
		out = append(out, domain.FolderWithCounts{
			Folder:         mapping.ToDomainFolder(m),
			DocumentCount:  int(docCount),
			SubfolderCount: int(subCount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folder counts: %w", err)
	}
	return out, nil
}

// UpdateFolder updates a folder's name, parent and audit fields.
func (r *PgxFolderRepository) UpdateFolder(ctx context.Context, folder domain.Folder) error {
	m := mapping.ToModelFolder(folder)

	query := `
		UPDATE folders
		SET name = $2, parent_folder_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE folder_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.FolderID,
		m.Name,
		nullableString(m.ParentFolderID),
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update folder %s: %w", m.FolderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteFolderTree deletes the given folders and detaches every document
// association pointing into them, as one transaction. Documents themselves
// are never touched.
func (r *PgxFolderRepository) DeleteFolderTree(ctx context.Context, folderIDs []string) error {
	if len(folderIDs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM folder_documents WHERE folder_id = ANY($1);`, folderIDs); err != nil {
		return fmt.Errorf("failed to detach documents from folder tree: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM folders WHERE folder_id = ANY($1);`, folderIDs)
	if err != nil {
		return fmt.Errorf("failed to delete folder tree: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindAssociationByDocumentID retrieves the current filing of a document.
func (r *PgxFolderRepository) FindAssociationByDocumentID(ctx context.Context, documentID string) (*domain.FolderDocument, error) {
	query := `SELECT document_id, folder_id, added_at, added_by FROM folder_documents WHERE document_id = $1;`

	var m models.FolderDocument
	err := r.Pool.QueryRow(ctx, query, documentID).Scan(&m.DocumentID, &m.FolderID, &m.AddedAt, &m.AddedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find association for document %s: %w", documentID, err)
	}

	assoc := mapping.ToDomainFolderDocument(m)
	return &assoc, nil
}

// UpsertAssociation replaces any existing filing for the document. The
// unique constraint on document_id makes the replace atomic.
func (r *PgxFolderRepository) UpsertAssociation(ctx context.Context, assoc domain.FolderDocument) error {
	m := mapping.ToModelFolderDocument(assoc)

	query := `
		INSERT INTO folder_documents (document_id, folder_id, added_at, added_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id)
		DO UPDATE SET folder_id = EXCLUDED.folder_id, added_at = EXCLUDED.added_at, added_by = EXCLUDED.added_by;
	`
	if _, err := r.Pool.Exec(ctx, query, m.DocumentID, m.FolderID, m.AddedAt, m.AddedBy); err != nil {
		return fmt.Errorf("failed to upsert association for document %s: %w", m.DocumentID, err)
	}
	return nil
}

// DeleteAssociation detaches the document from whichever folder holds it.
func (r *PgxFolderRepository) DeleteAssociation(ctx context.Context, documentID string) error {
	if _, err := r.Pool.Exec(ctx, `DELETE FROM folder_documents WHERE document_id = $1;`, documentID); err != nil {
		return fmt.Errorf("failed to delete association for document %s: %w", documentID, err)
	}
	return nil
}

// ListAssociationsByFolder retrieves the documents filed directly in a folder.
func (r *PgxFolderRepository) ListAssociationsByFolder(ctx context.Context, folderID string) ([]domain.FolderDocument, error) {
	query := `SELECT document_id, folder_id, added_at, added_by FROM folder_documents WHERE folder_id = $1 ORDER BY added_at;`

	rows, err := r.Pool.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list associations for folder %s: %w", folderID, err)
	}
	defer rows.Close()

	var out []domain.FolderDocument
	for rows.Next() {
		var m models.FolderDocument
		if err := rows.Scan(&m.DocumentID, &m.FolderID, &m.AddedAt, &m.AddedBy); err != nil {
			return nil, fmt.Errorf("failed to scan association row: %w", err)
		}
		out = append(out, mapping.ToDomainFolderDocument(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating associations: %w", err)
	}
	return out, nil
}
