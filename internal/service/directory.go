package service

import (
	"context"
	"fmt"

	"github.com/pkordes/backpackers/internal/directory"
	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/repo"
)

// DirectoryPage is one page of the filtered directory.
type DirectoryPage struct {
	Groups []domain.Group
	Total  int
	Page   int
	Limit  int
}

// DirectoryService serves the discovery listing. It reads through the
// GroupRepo it is given, which may be a cached snapshot: the directory does
// not promise read-your-writes.
type DirectoryService struct {
	groups repo.GroupRepo
	engine *directory.Engine
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(groups repo.GroupRepo, engine *directory.Engine) *DirectoryService {
	return &DirectoryService{groups: groups, engine: engine}
}

// Browse filters every group with f and returns the requested page.
// Order is the repository order (newest first), so identical inputs always
// produce identical pages.
func (s *DirectoryService) Browse(ctx context.Context, f directory.Filters, p domain.PaginationParams) (DirectoryPage, error) {
	if err := f.Validate(); err != nil {
		return DirectoryPage{}, err
	}

	all, err := s.groups.List(ctx)
	if err != nil {
		return DirectoryPage{}, fmt.Errorf("service.DirectoryService.Browse: %w", err)
	}

	matched := s.engine.Apply(all, f)
	page := directory.Paginate(matched, p)
	for i := range page {
		// Join requests are private to moderators.
		page[i].Requests = nil
	}
	return DirectoryPage{Groups: page, Total: len(matched), Page: p.Page, Limit: p.Limit}, nil
}
