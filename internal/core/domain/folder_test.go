package domain_test

import (
	"testing"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func folderWithCounts(id, parentID, name string) domain.FolderWithCounts {
	return domain.FolderWithCounts{
		Folder: domain.Folder{FolderID: id, ParentFolderID: parentID, Name: name},
	}
}

func TestBuildFolderTree_AssemblesForest(t *testing.T) {
	folders := []domain.FolderWithCounts{
		folderWithCounts("contracts", "", "Contracts"),
		folderWithCounts("2024", "contracts", "2024"),
		folderWithCounts("q1", "2024", "Q1"),
		folderWithCounts("invoices", "", "Invoices"),
	}

	roots, err := domain.BuildFolderTree(folders)

	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "Contracts", roots[0].Name)
	assert.Equal(t, "Invoices", roots[1].Name)
	require.Len(t, roots[0].Children, 1)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "Q1", roots[0].Children[0].Children[0].Name)
}

func TestBuildFolderTree_PreservesSiblingOrder(t *testing.T) {
	folders := []domain.FolderWithCounts{
		folderWithCounts("root", "", "Root"),
		folderWithCounts("a", "root", "A"),
		folderWithCounts("b", "root", "B"),
		folderWithCounts("c", "root", "C"),
	}

	roots, err := domain.BuildFolderTree(folders)

	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 3)
	assert.Equal(t, "A", roots[0].Children[0].Name)
	assert.Equal(t, "B", roots[0].Children[1].Name)
	assert.Equal(t, "C", roots[0].Children[2].Name)
}

func TestBuildFolderTree_MissingParentPromotesToRoot(t *testing.T) {
	folders := []domain.FolderWithCounts{
		folderWithCounts("orphan", "gone", "Orphan"),
		folderWithCounts("root", "", "Root"),
	}

	roots, err := domain.BuildFolderTree(folders)

	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "Orphan", roots[0].Name)
}

func TestBuildFolderTree_SelfParentReturnsIntegrityError(t *testing.T) {
	folders := []domain.FolderWithCounts{
		folderWithCounts("loop", "loop", "Loop"),
		folderWithCounts("root", "", "Root"),
	}

	roots, err := domain.BuildFolderTree(folders)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	assert.Nil(t, roots)
}

func TestBuildFolderTree_CycleReturnsIntegrityError(t *testing.T) {
	folders := []domain.FolderWithCounts{
		folderWithCounts("a", "b", "A"),
		folderWithCounts("b", "a", "B"),
		folderWithCounts("root", "", "Root"),
	}

	roots, err := domain.BuildFolderTree(folders)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	assert.Nil(t, roots)
}

func TestBuildFolderTree_Empty(t *testing.T) {
	roots, err := domain.BuildFolderTree(nil)

	require.NoError(t, err)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}

func flatFolder(id, parentID string) domain.Folder {
	return domain.Folder{FolderID: id, ParentFolderID: parentID}
}

func TestDescendantFolderIDs_CollectsSubtree(t *testing.T) {
	folders := []domain.Folder{
		flatFolder("contracts", ""),
		flatFolder("2024", "contracts"),
		flatFolder("q1", "2024"),
		flatFolder("invoices", ""),
	}

	ids := domain.DescendantFolderIDs("contracts", folders)

	assert.ElementsMatch(t, []string{"2024", "q1"}, ids)
}

func TestDescendantFolderIDs_LeafHasNone(t *testing.T) {
	folders := []domain.Folder{
		flatFolder("contracts", ""),
		flatFolder("2024", "contracts"),
	}

	assert.Empty(t, domain.DescendantFolderIDs("2024", folders))
}

func TestDescendantFolderIDs_StoredCycleTerminates(t *testing.T) {
	folders := []domain.Folder{
		flatFolder("a", "b"),
		flatFolder("b", "a"),
	}

	ids := domain.DescendantFolderIDs("a", folders)

	assert.ElementsMatch(t, []string{"b"}, ids)
}

func TestIsAncestor(t *testing.T) {
	folders := []domain.Folder{
		flatFolder("contracts", ""),
		flatFolder("2024", "contracts"),
		flatFolder("invoices", ""),
	}

	assert.True(t, domain.IsAncestor("contracts", "contracts", folders))
	assert.True(t, domain.IsAncestor("contracts", "2024", folders))
	assert.False(t, domain.IsAncestor("contracts", "invoices", folders))
	assert.False(t, domain.IsAncestor("2024", "contracts", folders))
}

func TestNextStatusForVerdict(t *testing.T) {
	next, err := domain.NextStatusForVerdict(domain.MemoPending, domain.VerdictApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.MemoApproved, next)

	next, err = domain.NextStatusForVerdict(domain.MemoPending, domain.VerdictRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.MemoReviewed, next)

	next, err = domain.NextStatusForVerdict(domain.MemoReviewed, domain.VerdictComment)
	require.NoError(t, err)
	assert.Equal(t, domain.MemoReviewed, next)

	// Approving again after a rejection cycle is still allowed.
	next, err = domain.NextStatusForVerdict(domain.MemoReviewed, domain.VerdictApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.MemoApproved, next)

	_, err = domain.NextStatusForVerdict(domain.MemoApproved, domain.VerdictComment)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)

	_, err = domain.NextStatusForVerdict(domain.MemoPending, domain.MinuteVerdict("maybe"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
