package mapping

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"finmap/internal/domain/user"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, userID int) ([]Mapping, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Mapping), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]Mapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Mapping), args.Error(1)
}

func (m *MockRepository) Search(ctx context.Context, userID int, criteria SearchCriteria) ([]Mapping, error) {
	args := m.Called(ctx, userID, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Mapping), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, mappingID int) (*Mapping, error) {
	args := m.Called(ctx, mappingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Mapping), args.Error(1)
}

func (m *MockRepository) GetOwner(ctx context.Context, mappingID int) (int, error) {
	args := m.Called(ctx, mappingID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, mp *Mapping) (int, error) {
	args := m.Called(ctx, mp)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, mp *Mapping) error {
	args := m.Called(ctx, mp)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, mappingID int) error {
	args := m.Called(ctx, mappingID)
	return args.Error(0)
}

func (m *MockRepository) FindDuplicate(ctx context.Context, mp *Mapping) (int, error) {
	args := m.Called(ctx, mp)
	return args.Int(0), args.Error(1)
}

// MockChildDeleter mocks the pinelabs cascade
type MockChildDeleter struct {
	mock.Mock
}

func (m *MockChildDeleter) DeleteByMapping(ctx context.Context, mappingID int) error {
	args := m.Called(ctx, mappingID)
	return args.Error(0)
}

var (
	owner = user.Actor{ID: 7, Role: user.RoleUser}
	admin = user.Actor{ID: 1, Role: user.RoleAdmin}
)

func newTestService() (Servicer, *MockRepository, *MockChildDeleter) {
	repo := new(MockRepository)
	details := new(MockChildDeleter)
	return NewService(repo, details, slog.Default()), repo, details
}

func TestService_List(t *testing.T) {
	service, repo, _ := newTestService()

	repo.On("List", mock.Anything, 7).Return([]Mapping{
		{ID: 1, UserID: 7, StoreName: "Acme North", Brand: "Acme"},
		{ID: 2, UserID: 7, StoreName: "Acme South", Brand: "Acme"},
	}, nil)

	resp, err := service.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "Acme North", resp.Mappings[0].StoreName)

	repo.AssertExpectations(t)
}

func TestService_ListAll_AdminOnly(t *testing.T) {
	service, repo, _ := newTestService()

	_, err := service.ListAll(context.Background(), owner)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	repo.AssertNotCalled(t, "ListAll", mock.Anything)

	repo.On("ListAll", mock.Anything).Return([]Mapping{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
	resp, err := service.ListAll(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
}

func TestService_Get_OwnerGate(t *testing.T) {
	service, repo, _ := newTestService()

	repo.On("Get", mock.Anything, 5).Return(&Mapping{ID: 5, UserID: 7}, nil)

	m, err := service.Get(context.Background(), owner, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, m.ID)

	stranger := user.Actor{ID: 99, Role: user.RoleUser}
	_, err = service.Get(context.Background(), stranger, 5)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admin may read anyone's mapping.
	_, err = service.Get(context.Background(), admin, 5)
	assert.NoError(t, err)
}

func TestService_Create(t *testing.T) {
	service, repo, _ := newTestService()

	m := &Mapping{StoreName: "Acme North", Brand: "Acme", Financier: "BFL"}

	repo.On("FindDuplicate", mock.Anything, m).Return(0, ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(mp *Mapping) bool {
		return mp.UserID == 7 && mp.StoreName == "Acme North"
	})).Return(42, nil)

	id, err := service.Create(context.Background(), owner, m)
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	repo.AssertExpectations(t)
}

func TestService_Create_MissingRequired(t *testing.T) {
	service, repo, _ := newTestService()

	_, err := service.Create(context.Background(), owner, &Mapping{Brand: "Acme"})
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = service.Create(context.Background(), owner, &Mapping{StoreName: "Acme North"})
	assert.ErrorIs(t, err, ErrInvalidData)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_Duplicate(t *testing.T) {
	service, repo, _ := newTestService()

	m := &Mapping{StoreName: "Acme North", Brand: "Acme"}
	repo.On("FindDuplicate", mock.Anything, m).Return(13, nil)

	_, err := service.Create(context.Background(), owner, m)
	assert.ErrorIs(t, err, ErrDuplicate)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Update_KeepsOwner(t *testing.T) {
	service, repo, _ := newTestService()

	repo.On("Get", mock.Anything, 5).Return(&Mapping{ID: 5, UserID: 7}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(mp *Mapping) bool {
		return mp.ID == 5 && mp.UserID == 7
	})).Return(nil)

	// Caller tries to hand the row to someone else; owner is immutable.
	err := service.Update(context.Background(), admin, &Mapping{ID: 5, UserID: 1234, StoreName: "Renamed", Brand: "Acme"})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestService_Delete_CascadesChildrenFirst(t *testing.T) {
	service, repo, details := newTestService()

	var order []string
	repo.On("Get", mock.Anything, 5).Return(&Mapping{ID: 5, UserID: 7}, nil)
	details.On("DeleteByMapping", mock.Anything, 5).Run(func(mock.Arguments) {
		order = append(order, "details")
	}).Return(nil)
	repo.On("Delete", mock.Anything, 5).Run(func(mock.Arguments) {
		order = append(order, "mapping")
	}).Return(nil)

	err := service.Delete(context.Background(), owner, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"details", "mapping"}, order)
}

func TestService_Delete_NotFound(t *testing.T) {
	service, repo, details := newTestService()

	repo.On("Get", mock.Anything, 5).Return(nil, ErrNotFound)

	err := service.Delete(context.Background(), owner, 5)
	assert.ErrorIs(t, err, ErrNotFound)
	details.AssertNotCalled(t, "DeleteByMapping", mock.Anything, mock.Anything)
}

func TestService_Delete_ChildCascadeFailureAbortsParentDelete(t *testing.T) {
	service, repo, details := newTestService()

	repo.On("Get", mock.Anything, 5).Return(&Mapping{ID: 5, UserID: 7}, nil)
	details.On("DeleteByMapping", mock.Anything, 5).Return(errors.New("timeout"))

	err := service.Delete(context.Background(), owner, 5)
	require.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Search_AdminUnscoped(t *testing.T) {
	service, repo, _ := newTestService()

	criteria := SearchCriteria{Term: "acme", Limit: 10}
	repo.On("Search", mock.Anything, 7, criteria).Return([]Mapping{{ID: 1}}, nil)
	repo.On("Search", mock.Anything, 0, criteria).Return([]Mapping{{ID: 1}, {ID: 2}}, nil)

	own, err := service.Search(context.Background(), owner, criteria)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, err := service.Search(context.Background(), admin, criteria)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
