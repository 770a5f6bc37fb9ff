package page

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Slug    string
	Title   string
	Content string
}

type UpdateRequest struct {
	Title   *string
	Content *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Update(ctx context.Context, slug string, req UpdateRequest) (*Page, error)
	Delete(ctx context.Context, slug string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Page, error) {
	slug := strings.TrimSpace(req.Slug)
	if !ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}

	p := &Page{
		Slug:    slug,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	if !ValidSlug(slug) {
		return nil, ErrNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context) ([]*Page, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, slug string, req UpdateRequest) (*Page, error) {
	p, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrContentRequired
		}
		p.Content = *req.Content
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, slug string) error {
	if !ValidSlug(slug) {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, slug)
}
