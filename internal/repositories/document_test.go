package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-agent/internal/models"
)

func TestDocumentRepositoryCreateAndFind(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))

	doc := &models.Document{
		ID:               uuid.New(),
		Filename:         "3f1c.pdf",
		OriginalFileName: "jane-doe.pdf",
		FileType:         models.FileTypeResume,
		FilePath:         "uploads/3f1c.pdf",
		SizeBytes:        2048,
	}
	require.NoError(t, repo.Create(doc))

	got, err := repo.FindByID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, "jane-doe.pdf", got.OriginalFileName)
	assert.Equal(t, models.FileTypeResume, got.FileType)
	assert.Equal(t, "uploads/3f1c.pdf", got.FilePath)
	assert.EqualValues(t, 2048, got.SizeBytes)
}

func TestDocumentRepositoryFindUnknown(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))

	_, err := repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
