package pinelabs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"finmap/internal/domain/mapping"
	"finmap/internal/domain/user"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListByMapping(ctx context.Context, mappingID int) ([]Detail, error) {
	args := m.Called(ctx, mappingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Detail), args.Error(1)
}

func (m *MockRepository) ListByOwner(ctx context.Context, userID int) ([]Row, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Row), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Row), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, detailID int) (*Detail, error) {
	args := m.Called(ctx, detailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Detail), args.Error(1)
}

func (m *MockRepository) InsertBatch(ctx context.Context, details []Detail) ([]Detail, error) {
	args := m.Called(ctx, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Detail), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, detail *Detail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

func (m *MockRepository) DeleteBatch(ctx context.Context, ids []int) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockRepository) DeleteByMapping(ctx context.Context, mappingID int) error {
	args := m.Called(ctx, mappingID)
	return args.Error(0)
}

// MockOwnerResolver mocks the mapping owner lookup
type MockOwnerResolver struct {
	mock.Mock
}

func (m *MockOwnerResolver) GetOwner(ctx context.Context, mappingID int) (int, error) {
	args := m.Called(ctx, mappingID)
	return args.Int(0), args.Error(1)
}

func newTestService() (*Service, *MockRepository, *MockOwnerResolver) {
	repo := new(MockRepository)
	owners := new(MockOwnerResolver)
	service := NewService(repo, owners, slog.Default())
	return service, repo, owners
}

var (
	owner = user.Actor{ID: 7, Role: user.RoleUser}
	admin = user.Actor{ID: 1, Role: user.RoleAdmin}
)

func TestService_Reconcile_NoOp(t *testing.T) {
	service, repo, owners := newTestService()

	snapshot := []Detail{
		{ID: 1, MappingID: 10, PosID: "P1", TID: "T1", SerialNo: "S1", StoreID: "ST1"},
		{ID: 2, MappingID: 10, PosID: "P2", TID: "T2", SerialNo: "S2", StoreID: "ST2"},
	}
	service.Mirror().Replace([]Row{{Detail: snapshot[0]}, {Detail: snapshot[1]}})
	before := service.Mirror().Snapshot()

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(snapshot, nil)

	entries := []Entry{
		{ID: 1, PosID: "P1", TID: "T1", SerialNo: "S1", StoreID: "ST1"},
		{ID: 2, PosID: "P2", TID: "T2", SerialNo: "S2", StoreID: "ST2"},
	}

	result, err := service.Reconcile(context.Background(), owner, 10, entries)
	require.NoError(t, err)
	assert.True(t, result.NoOp())

	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
	assert.Equal(t, before, service.Mirror().Snapshot())
}

func TestService_Reconcile_InsertOnly(t *testing.T) {
	service, repo, owners := newTestService()

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return([]Detail{}, nil)
	repo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(details []Detail) bool {
		return len(details) == 1 &&
			details[0].ID == 0 &&
			details[0].MappingID == 10 &&
			details[0].UserID == 7 &&
			details[0].PosID == "A"
	})).Return([]Detail{
		{ID: 101, MappingID: 10, UserID: 7, PosID: "A"},
	}, nil)

	result, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{PosID: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Deleted)

	assert.Equal(t, 1, service.Mirror().Len())
	rows := service.Mirror().Snapshot()
	assert.Equal(t, 101, rows[0].ID)
	assert.Equal(t, "A", rows[0].PosID)

	repo.AssertExpectations(t)
}

func TestService_Reconcile_DropEmpty(t *testing.T) {
	service, repo, owners := newTestService()

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return([]Detail{}, nil)

	result, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{PosID: "", TID: "", SerialNo: "", StoreID: ""},
	})
	require.NoError(t, err)
	assert.True(t, result.NoOp())
	assert.Equal(t, 1, result.Dropped)

	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestService_Reconcile_DeletionByOmission(t *testing.T) {
	service, repo, owners := newTestService()

	snapshot := []Detail{
		{ID: 1, MappingID: 10, PosID: "P1"},
		{ID: 2, MappingID: 10, PosID: "P2"},
	}

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(snapshot, nil)
	repo.On("DeleteBatch", mock.Anything, []int{2}).Return(nil)

	result, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{ID: 1, PosID: "P1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 0, result.Updated)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Reconcile_UpdateDetection(t *testing.T) {
	service, repo, owners := newTestService()

	snapshot := []Detail{{ID: 1, MappingID: 10, PosID: "X"}}
	service.Mirror().Replace([]Row{{Detail: snapshot[0], StoreName: "Store", Brand: "Brand"}})

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(snapshot, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(d *Detail) bool {
		return d.ID == 1 && d.MappingID == 10 && d.PosID == "Y"
	})).Return(nil)

	result, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{ID: 1, PosID: "Y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 0, result.Deleted)

	// Mirror patched in place, denormalized fields kept.
	rows := service.Mirror().Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "Y", rows[0].PosID)
	assert.Equal(t, "Store", rows[0].StoreName)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestService_Reconcile_PermissionGate(t *testing.T) {
	service, repo, owners := newTestService()

	stranger := user.Actor{ID: 99, Role: user.RoleUser}
	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)

	_, err := service.Reconcile(context.Background(), stranger, 10, []Entry{
		{PosID: "A"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// No snapshot fetch, no mutation of any kind.
	repo.AssertNotCalled(t, "ListByMapping", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestService_Reconcile_MappingVanished(t *testing.T) {
	service, repo, owners := newTestService()

	owners.On("GetOwner", mock.Anything, 10).Return(0, mapping.ErrNotFound)

	_, err := service.Reconcile(context.Background(), owner, 10, []Entry{{PosID: "A"}})
	assert.ErrorIs(t, err, ErrMappingNotFound)
	repo.AssertNotCalled(t, "ListByMapping", mock.Anything, mock.Anything)
}

func TestService_Reconcile_OwnerLookupFailsClosed(t *testing.T) {
	service, repo, owners := newTestService()

	owners.On("GetOwner", mock.Anything, 10).Return(0, errors.New("connection reset"))

	_, err := service.Reconcile(context.Background(), owner, 10, []Entry{{PosID: "A"}})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	repo.AssertNotCalled(t, "ListByMapping", mock.Anything, mock.Anything)
}

func TestService_Reconcile_AdminSkipsOwnerCheck(t *testing.T) {
	service, repo, owners := newTestService()

	repo.On("ListByMapping", mock.Anything, 10).Return([]Detail{}, nil)

	result, err := service.Reconcile(context.Background(), admin, 10, nil)
	require.NoError(t, err)
	assert.True(t, result.NoOp())

	owners.AssertNotCalled(t, "GetOwner", mock.Anything, mock.Anything)
}

func TestService_Reconcile_SnapshotFailure(t *testing.T) {
	service, repo, owners := newTestService()

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(nil, errors.New("timeout"))

	_, err := service.Reconcile(context.Background(), owner, 10, []Entry{{PosID: "A"}})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestService_Reconcile_OrderInvariance(t *testing.T) {
	service, repo, owners := newTestService()

	snapshot := []Detail{
		{ID: 1, MappingID: 10, PosID: "P1"},
		{ID: 2, MappingID: 10, PosID: "P2"},
		{ID: 3, MappingID: 10, PosID: "P3"},
	}

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(snapshot, nil)

	// Same rows, shuffled: the diff keys on id, not position.
	result, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{ID: 3, PosID: "P3"},
		{ID: 1, PosID: "P1"},
		{ID: 2, PosID: "P2"},
	})
	require.NoError(t, err)
	assert.True(t, result.NoOp())

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestService_Reconcile_StaleIDTreatedAsNew(t *testing.T) {
	service, repo, owners := newTestService()

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return([]Detail{}, nil)
	repo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(details []Detail) bool {
		return len(details) == 1 && details[0].ID == 0 && details[0].PosID == "A"
	})).Return([]Detail{{ID: 55, MappingID: 10, PosID: "A"}}, nil)

	// id 42 no longer exists server-side; the entry is re-inserted fresh.
	result, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{ID: 42, PosID: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)

	repo.AssertExpectations(t)
}

func TestService_Reconcile_MixedPlan(t *testing.T) {
	service, repo, owners := newTestService()

	snapshot := []Detail{
		{ID: 1, MappingID: 10, PosID: "keep"},
		{ID: 2, MappingID: 10, PosID: "change"},
		{ID: 3, MappingID: 10, PosID: "drop"},
	}

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(snapshot, nil)
	repo.On("DeleteBatch", mock.Anything, []int{3}).Return(nil)
	repo.On("InsertBatch", mock.Anything, mock.Anything).Return(
		[]Detail{{ID: 4, MappingID: 10, UserID: 7, PosID: "new"}}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(d *Detail) bool {
		return d.ID == 2 && d.PosID == "changed"
	})).Return(nil)

	result, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{ID: 1, PosID: "keep"},
		{ID: 2, PosID: "changed"},
		{PosID: "new"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)

	repo.AssertExpectations(t)
}

func TestService_Reconcile_ApplyOrder(t *testing.T) {
	service, repo, owners := newTestService()

	var order []string
	snapshot := []Detail{
		{ID: 2, MappingID: 10, PosID: "change"},
		{ID: 3, MappingID: 10, PosID: "drop"},
	}

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(snapshot, nil)
	repo.On("DeleteBatch", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "delete")
	}).Return(nil)
	repo.On("InsertBatch", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "insert")
	}).Return([]Detail{{ID: 9, MappingID: 10}}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "update")
	}).Return(nil)

	_, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{ID: 2, PosID: "changed"},
		{PosID: "new"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"delete", "insert", "update"}, order)
}

func TestService_Reconcile_PartialApplyRestoresMirror(t *testing.T) {
	service, repo, owners := newTestService()

	snapshot := []Detail{{ID: 1, MappingID: 10, PosID: "old"}}
	service.Mirror().Replace([]Row{{Detail: snapshot[0]}})
	before := service.Mirror().Snapshot()

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(snapshot, nil)
	repo.On("DeleteBatch", mock.Anything, []int{1}).Return(nil)
	repo.On("InsertBatch", mock.Anything, mock.Anything).Return(nil, errors.New("constraint violation"))

	_, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{PosID: "new"},
	})
	require.Error(t, err)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, StageInsert, applyErr.Stage)

	// Mirror rolled back to the pre-call state even though the delete
	// already landed server-side.
	assert.Equal(t, before, service.Mirror().Snapshot())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Reconcile_UpdateFailureNamesStage(t *testing.T) {
	service, repo, owners := newTestService()

	snapshot := []Detail{{ID: 1, MappingID: 10, PosID: "X"}}

	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("ListByMapping", mock.Anything, 10).Return(snapshot, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(errors.New("deadlock"))

	_, err := service.Reconcile(context.Background(), owner, 10, []Entry{
		{ID: 1, PosID: "Y"},
	})

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, StageUpdate, applyErr.Stage)
	assert.Contains(t, applyErr.Error(), "deadlock")
}

func TestService_DeleteDetail(t *testing.T) {
	service, repo, owners := newTestService()

	service.Mirror().Replace([]Row{{Detail: Detail{ID: 5, MappingID: 10}}})

	repo.On("Get", mock.Anything, 5).Return(&Detail{ID: 5, MappingID: 10}, nil)
	owners.On("GetOwner", mock.Anything, 10).Return(7, nil)
	repo.On("DeleteBatch", mock.Anything, []int{5}).Return(nil)

	err := service.DeleteDetail(context.Background(), owner, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, service.Mirror().Len())

	repo.AssertExpectations(t)
}

func TestService_DeleteDetail_PermissionDenied(t *testing.T) {
	service, repo, owners := newTestService()

	repo.On("Get", mock.Anything, 5).Return(&Detail{ID: 5, MappingID: 10}, nil)
	owners.On("GetOwner", mock.Anything, 10).Return(3, nil)

	err := service.DeleteDetail(context.Background(), owner, 5)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestService_ListForActor(t *testing.T) {
	service, repo, _ := newTestService()

	rows := []Row{
		{Detail: Detail{ID: 1, MappingID: 10, PosID: "A"}, StoreName: "Store A", Brand: "Brand X"},
	}
	repo.On("ListByOwner", mock.Anything, 7).Return(rows, nil)

	resp, err := service.ListForActor(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, rows, service.Mirror().Snapshot())

	repo.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestService_ListForActor_Admin(t *testing.T) {
	service, repo, _ := newTestService()

	rows := []Row{
		{Detail: Detail{ID: 1, MappingID: 10}},
		{Detail: Detail{ID: 2, MappingID: 11}},
	}
	repo.On("ListAll", mock.Anything).Return(rows, nil)

	resp, err := service.ListForActor(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	repo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
}
