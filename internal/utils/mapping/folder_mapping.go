package mapping

import (
	"github.com/ememohq/ememo_backend/internal/core/domain"
	"github.com/ememohq/ememo_backend/internal/models"
)

// ToModelFolder converts a domain Folder to a model Folder
func ToModelFolder(d domain.Folder) models.Folder {
	return models.Folder{
		FolderID:       d.FolderID,
		OwnerID:        d.OwnerID,
		Name:           d.Name,
		ParentFolderID: d.ParentFolderID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFolder converts a model Folder to a domain Folder
func ToDomainFolder(m models.Folder) domain.Folder {
	return domain.Folder{
		FolderID:       m.FolderID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		ParentFolderID: m.ParentFolderID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFolderDocument converts a model FolderDocument to a domain FolderDocument
func ToDomainFolderDocument(m models.FolderDocument) domain.FolderDocument {
	return domain.FolderDocument{
		DocumentID: m.DocumentID,
		FolderID:   m.FolderID,
		AddedAt:    m.AddedAt,
		AddedBy:    m.AddedBy,
	}
}

// ToModelFolderDocument converts a domain FolderDocument to a model FolderDocument
func ToModelFolderDocument(d domain.FolderDocument) models.FolderDocument {
	return models.FolderDocument{
		DocumentID: d.DocumentID,
		FolderID:   d.FolderID,
		AddedAt:    d.AddedAt,
		AddedBy:    d.AddedBy,
	}
}
