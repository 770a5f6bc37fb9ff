package page

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	pages map[string]*Page
}

func (r *memRepo) Create(_ context.Context, p *Page) error {
	if _, ok := r.pages[p.Slug]; ok {
		return ErrSlugTaken
	}
	p.ID = "id-" + p.Slug
	cp := *p
	r.pages[p.Slug] = &cp
	return nil
}

func (r *memRepo) GetBySlug(_ context.Context, slug string) (*Page, error) {
	p, ok := r.pages[slug]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) List(context.Context) ([]*Page, error) {
	var out []*Page
	for _, p := range r.pages {
		out = append(out, p)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, p *Page) error {
	cp := *p
	r.pages[p.Slug] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, slug string) error {
	if _, ok := r.pages[slug]; !ok {
		return ErrNotFound
	}
	delete(r.pages, slug)
	return nil
}

func TestValidSlug(t *testing.T) {
	for _, s := range []string{"terms", "privacy-policy", "faq-2024"} {
		assert.True(t, ValidSlug(s), s)
	}
	for _, s := range []string{"", "Terms", "-terms", "terms-", "terms--of", "terms of", "../etc", strings.Repeat("a", 65)} {
		assert.False(t, ValidSlug(s), s)
	}
}

func TestPageLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memRepo{pages: map[string]*Page{}})

	p, err := svc.Create(ctx, CreateRequest{Slug: "terms", Title: " Terms of Service ", Content: "Be nice."})
	require.NoError(t, err)
	assert.Equal(t, "Terms of Service", p.Title)

	_, err = svc.Create(ctx, CreateRequest{Slug: "terms", Title: "Again", Content: "x"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	newContent := "Be very nice."
	p, err = svc.Update(ctx, "terms", UpdateRequest{Content: &newContent})
	require.NoError(t, err)
	assert.Equal(t, "Terms of Service", p.Title)

	got, err := svc.GetBySlug(ctx, "terms")
	require.NoError(t, err)
	assert.Equal(t, newContent, got.Content)

	require.NoError(t, svc.Delete(ctx, "terms"))
	_, err = svc.GetBySlug(ctx, "terms")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memRepo{pages: map[string]*Page{}})

	_, err := svc.Create(ctx, CreateRequest{Slug: "Bad Slug", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrInvalidSlug)
	_, err = svc.Create(ctx, CreateRequest{Slug: "ok", Title: "  ", Content: "c"})
	assert.ErrorIs(t, err, ErrTitleRequired)
	_, err = svc.Create(ctx, CreateRequest{Slug: "ok", Title: "t", Content: ""})
	assert.ErrorIs(t, err, ErrContentRequired)

	_, err = svc.Create(ctx, CreateRequest{Slug: "ok", Title: "t", Content: "c"})
	require.NoError(t, err)
	blank := " "
	_, err = svc.Update(ctx, "ok", UpdateRequest{Title: &blank})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.GetBySlug(ctx, "../ok")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
}
