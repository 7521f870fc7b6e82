package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrefersExplicitDescription(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	svc := NewJobContextService(embedder, store, 0, nil)

	got, err := svc.Resolve(context.Background(), "Backend Engineer", "  Build Go services.  ")
	require.NoError(t, err)
	assert.Equal(t, "Build Go services.", got)
	assert.Empty(t, embedder.queries)
}

func TestResolveRetrievesByTitle(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{results: []SearchResult{
		{Score: 0.91, Text: "Five years of Go."},
		{Score: 0.84, Text: "Kubernetes in production."},
	}}
	svc := NewJobContextService(embedder, store, 5, nil)

	got, err := svc.Resolve(context.Background(), "Backend Engineer", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Job requirements and qualifications for Backend Engineer"}, embedder.queries)
	assert.Equal(t, DocTypeJobDescription, store.docType)
	assert.Equal(t, 5, store.limit)
	assert.Contains(t, got, "Five years of Go.")
	assert.Contains(t, got, "Kubernetes in production.")
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewJobContextService(&fakeEmbedder{}, &fakeStore{}, 3, nil).Resolve(ctx, " ", "")
	assert.ErrorIs(t, err, ErrJobDescriptionRequired)

	_, err = NewJobContextService(nil, nil, 3, nil).Resolve(ctx, "Backend Engineer", "")
	assert.ErrorIs(t, err, ErrRetrievalDisabled)

	_, err = NewJobContextService(&fakeEmbedder{}, &fakeStore{}, 3, nil).Resolve(ctx, "Astronaut", "")
	assert.ErrorIs(t, err, ErrJobDescriptionNotFound)

	errEmbed := errors.New("quota exceeded")
	_, err = NewJobContextService(&fakeEmbedder{err: errEmbed}, &fakeStore{}, 3, nil).Resolve(ctx, "Backend Engineer", "")
	assert.ErrorIs(t, err, errEmbed)
}
