package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
)

const (
	msgDoctorNotFound    = "Lékař nebyl nalezen"
	msgSearchFailed      = "Chyba při vyhledávání lékařů"
	msgBadSpecialization = "Neplatná specializace"
	msgBadRegion         = "Neplatný region"

	searchCacheTTL = 5 * time.Minute
	maxPageSize    = 50
)

// SearchResult is one page of the doctor directory.
type SearchResult struct {
	Doctors []*model.Doctor `json:"doctors"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// Service serves the public doctor directory. Search pages are cached
// briefly; profile data changes rarely and the directory is read-heavy.
type Service struct {
	repo   repository.DoctorRepository
	cat    *catalog.Catalog
	cache  *gocache.Cache
	logger *logger.Logger
}

func NewService(repo repository.DoctorRepository, cat *catalog.Catalog, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cat:    cat,
		cache:  gocache.New(searchCacheTTL, 10*time.Minute),
		logger: logger,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(msgDoctorNotFound, err)
		}
		return nil, apperrors.Internal(msgSearchFailed, err)
	}
	return doctor, nil
}

// Search returns verified doctors matching the filters, best-rated first.
func (s *Service) Search(ctx context.Context, filters *model.DoctorSearchFilters) (*SearchResult, error) {
	if filters.Specialization != "" && !s.cat.IsSpecialization(filters.Specialization) {
		return nil, apperrors.BadRequest(msgBadSpecialization, nil)
	}
	if filters.Region != "" && !s.cat.IsRegion(filters.Region) {
		return nil, apperrors.BadRequest(msgBadRegion, nil)
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit <= 0 || filters.Limit > maxPageSize {
		filters.Limit = 10
	}

	key := cacheKey(filters)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*SearchResult), nil
	}

	doctors, total, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(msgSearchFailed, err)
	}

	result := &SearchResult{
		Doctors: doctors,
		Total:   total,
		Page:    filters.Page,
		Limit:   filters.Limit,
	}
	s.cache.Set(key, result, gocache.DefaultExpiration)
	return result, nil
}

func cacheKey(f *model.DoctorSearchFilters) string {
	return fmt.Sprintf("search:%s:%s:%s:%s:%s:%t:%d:%d",
		f.Query, f.Specialization, f.Region, f.City, f.Insurance,
		f.AcceptsNewPatients, f.Page, f.Limit)
}
