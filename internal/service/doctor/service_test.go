package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
)

type fakeDoctorRepo struct {
	doctors     map[uuid.UUID]*model.Doctor
	results     []*model.Doctor
	searchCalls int
}

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) Search(ctx context.Context, filters *model.DoctorSearchFilters) ([]*model.Doctor, int, error) {
	f.searchCalls++
	return f.results, len(f.results), nil
}

func newTestService(t *testing.T, repo *fakeDoctorRepo) *Service {
	t.Helper()
	cat, err := catalog.NewCzech()
	require.NoError(t, err)
	return NewService(repo, cat, logger.NewLogger(nil))
}

func TestSearchRejectsUnknownSpecialization(t *testing.T) {
	svc := newTestService(t, &fakeDoctorRepo{})

	_, err := svc.Search(context.Background(), &model.DoctorSearchFilters{
		Specialization: "chiropraktik",
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Neplatná specializace", appErr.Message)
}

func TestSearchRejectsUnknownRegion(t *testing.T) {
	svc := newTestService(t, &fakeDoctorRepo{})

	_, err := svc.Search(context.Background(), &model.DoctorSearchFilters{
		Region: "Horní Dolní",
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Neplatný region", appErr.Message)
}

func TestSearchClampsPaging(t *testing.T) {
	repo := &fakeDoctorRepo{}
	svc := newTestService(t, repo)

	result, err := svc.Search(context.Background(), &model.DoctorSearchFilters{
		Page:  0,
		Limit: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
}

func TestSearchCachesPages(t *testing.T) {
	repo := &fakeDoctorRepo{
		results: []*model.Doctor{{ID: uuid.New(), LastName: "Novák", Specialization: "kardiolog"}},
	}
	svc := newTestService(t, repo)

	filters := &model.DoctorSearchFilters{Specialization: "kardiolog", Page: 1, Limit: 10}

	first, err := svc.Search(context.Background(), filters)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), filters)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.searchCalls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, second.Total)
}

func TestGetUnknownDoctor(t *testing.T) {
	svc := newTestService(t, &fakeDoctorRepo{})

	_, err := svc.Get(context.Background(), uuid.New())

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Lékař nebyl nalezen", appErr.Message)
}
