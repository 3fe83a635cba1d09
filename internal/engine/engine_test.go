package engine

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/PatxiBS/ud2-storageFork/internal/models"
	"github.com/PatxiBS/ud2-storageFork/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorage is a mock implementation of the storage provider
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) List(ctx context.Context) ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MockStorage) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStorage) Put(ctx context.Context, name string, content []byte) error {
	args := m.Called(name, content)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (*FileStoreService, storage.StorageProvider) {
	t.Helper()
	provider := storage.NewMemoryProvider()
	return NewFileStoreService(provider), provider
}

func createReq(filename, content string) models.CreateRequest {
	return models.CreateRequest{Filename: strPtr(filename), Content: strPtr(content)}
}

func updateReq(content string) models.UpdateRequest {
	return models.UpdateRequest{Content: strPtr(content)}
}

func TestFileStoreService_ListEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	res := svc.List(context.Background())
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, MsgListed, res.Message)
	assert.Equal(t, []string{}, res.Content)
}

func TestFileStoreService_Create(t *testing.T) {
	tests := []struct {
		name           string
		req            models.CreateRequest
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "Valid request",
			req:            createReq("a.txt", "hola"),
			expectedStatus: http.StatusOK,
			expectedMsg:    MsgSaved,
		},
		{
			name:           "Empty content is allowed",
			req:            createReq("empty.txt", ""),
			expectedStatus: http.StatusOK,
			expectedMsg:    MsgSaved,
		},
		{
			name:           "Missing filename",
			req:            models.CreateRequest{Content: strPtr("x")},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    MsgInvalidParams,
		},
		{
			name:           "Empty filename",
			req:            createReq("", "x"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    MsgInvalidParams,
		},
		{
			name:           "Missing content",
			req:            models.CreateRequest{Filename: strPtr("a.txt")},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    MsgInvalidParams,
		},
		{
			name:           "Both missing",
			req:            models.CreateRequest{},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    MsgInvalidParams,
		},
		{
			name:           "Reserved temp prefix",
			req:            createReq(storage.TempPrefix+"user.txt", "x"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    MsgInvalidParams,
		},
		{
			name:           "Path traversal",
			req:            createReq("../etc/passwd", "x"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    MsgInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			res := svc.Create(context.Background(), tt.req)
			assert.Equal(t, tt.expectedStatus, res.StatusCode)
			assert.Equal(t, tt.expectedMsg, res.Message)
			assert.Nil(t, res.Content)
		})
	}
}

func TestFileStoreService_CreateThenRead(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, content := range []string{"hola mundo", "", "línea 1\nlínea 2"} {
		name := "file-" + content + ".txt"
		require.Equal(t, http.StatusOK, svc.Create(ctx, createReq(name, content)).StatusCode)

		res := svc.Read(ctx, name)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, MsgRead, res.Message)
		assert.Equal(t, content, res.Content)
	}
}

func TestFileStoreService_CreateTwiceKeepsFirstContent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, http.StatusOK, svc.Create(ctx, createReq("a.txt", "first")).StatusCode)

	res := svc.Create(ctx, createReq("a.txt", "second"))
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, MsgAlreadyExists, res.Message)

	assert.Equal(t, "first", svc.Read(ctx, "a.txt").Content)
}

func TestFileStoreService_InvalidCreateLeavesStorageUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.Equal(t, http.StatusOK, svc.Create(ctx, createReq("keep.txt", "x")).StatusCode)
	before := svc.List(ctx).Content

	svc.Create(ctx, models.CreateRequest{Filename: strPtr("new.txt")})
	svc.Create(ctx, models.CreateRequest{Content: strPtr("orphan")})

	assert.Equal(t, before, svc.List(ctx).Content)
}

func TestFileStoreService_ReadMissing(t *testing.T) {
	svc, _ := newTestService(t)

	res := svc.Read(context.Background(), "never-created.txt")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, MsgFileNotFound, res.Message)
	assert.Nil(t, res.Content)
}

func TestFileStoreService_Update(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.Equal(t, http.StatusOK, svc.Create(ctx, createReq("a.txt", "c1")).StatusCode)

	res := svc.Update(ctx, "a.txt", updateReq("c2"))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, MsgUpdated, res.Message)
	assert.Equal(t, "c2", svc.Read(ctx, "a.txt").Content)
}

func TestFileStoreService_UpdateMissingDoesNotCreate(t *testing.T) {
	svc, provider := newTestService(t)
	ctx := context.Background()

	res := svc.Update(ctx, "ghost.txt", updateReq("c2"))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, MsgDoesNotExist, res.Message)

	exists, err := provider.Exists(ctx, "ghost.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStoreService_UpdateValidationWinsOverNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	res := svc.Update(context.Background(), "ghost.txt", models.UpdateRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, MsgContentMissing, res.Message)
}

func TestFileStoreService_Delete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.Equal(t, http.StatusOK, svc.Create(ctx, createReq("a.txt", "x")).StatusCode)

	res := svc.Delete(ctx, "a.txt")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, MsgDeleted, res.Message)
	assert.Equal(t, http.StatusNotFound, svc.Read(ctx, "a.txt").StatusCode)

	for i := 0; i < 3; i++ {
		res = svc.Delete(ctx, "a.txt")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, MsgDoesNotExist, res.Message)
	}
}

func TestFileStoreService_ListAfterCreateAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.Equal(t, http.StatusOK, svc.Create(ctx, createReq(name, name)).StatusCode)
	}
	require.Equal(t, http.StatusOK, svc.Delete(ctx, "b").StatusCode)

	res := svc.List(ctx)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.ElementsMatch(t, []string{"a", "c"}, res.Content)
}

func TestFileStoreService_FileSystemProvider(t *testing.T) {
	provider, err := storage.NewFileSystemProvider(t.TempDir())
	require.NoError(t, err)
	svc := NewFileStoreService(provider)
	ctx := context.Background()

	assert.Equal(t, http.StatusOK, svc.Create(ctx, createReq("a.txt", "c1")).StatusCode)
	assert.Equal(t, http.StatusConflict, svc.Create(ctx, createReq("a.txt", "other")).StatusCode)
	assert.Equal(t, http.StatusOK, svc.Update(ctx, "a.txt", updateReq("c2")).StatusCode)
	assert.Equal(t, "c2", svc.Read(ctx, "a.txt").Content)
	assert.Equal(t, []string{"a.txt"}, svc.List(ctx).Content)
	assert.Equal(t, http.StatusOK, svc.Delete(ctx, "a.txt").StatusCode)
	assert.Equal(t, http.StatusNotFound, svc.Delete(ctx, "a.txt").StatusCode)
	assert.Equal(t, http.StatusNotFound, svc.Read(ctx, "..").StatusCode)
}

func TestFileStoreService_CreatedFilesAreListed(t *testing.T) {
	ctx := context.Background()
	fsProvider, err := storage.NewFileSystemProvider(t.TempDir())
	require.NoError(t, err)

	providers := map[string]storage.StorageProvider{
		"memory":     storage.NewMemoryProvider(),
		"filesystem": fsProvider,
	}
	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			svc := NewFileStoreService(provider)

			reserved := svc.Create(ctx, createReq(storage.TempPrefix+"user.txt", "x"))
			assert.Equal(t, http.StatusUnprocessableEntity, reserved.StatusCode)

			require.Equal(t, http.StatusOK, svc.Create(ctx, createReq(".hidden", "x")).StatusCode)
			assert.Equal(t, []string{".hidden"}, svc.List(ctx).Content)
		})
	}
}

func TestFileStoreService_StorageErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(m *MockStorage)
		call  func(svc *FileStoreService) models.OperationResult
	}{
		{
			name:  "List fails",
			setup: func(m *MockStorage) { m.On("List").Return(nil, boom) },
			call:  func(svc *FileStoreService) models.OperationResult { return svc.List(ctx) },
		},
		{
			name:  "Exists fails on create",
			setup: func(m *MockStorage) { m.On("Exists", "a.txt").Return(false, boom) },
			call:  func(svc *FileStoreService) models.OperationResult { return svc.Create(ctx, createReq("a.txt", "x")) },
		},
		{
			name: "Put fails on create",
			setup: func(m *MockStorage) {
				m.On("Exists", "a.txt").Return(false, nil)
				m.On("Put", "a.txt", []byte("x")).Return(boom)
			},
			call: func(svc *FileStoreService) models.OperationResult { return svc.Create(ctx, createReq("a.txt", "x")) },
		},
		{
			name: "Get fails on read",
			setup: func(m *MockStorage) {
				m.On("Exists", "a.txt").Return(true, nil)
				m.On("Get", "a.txt").Return(nil, boom)
			},
			call: func(svc *FileStoreService) models.OperationResult { return svc.Read(ctx, "a.txt") },
		},
		{
			name: "Put fails on update",
			setup: func(m *MockStorage) {
				m.On("Exists", "a.txt").Return(true, nil)
				m.On("Put", "a.txt", []byte("y")).Return(boom)
			},
			call: func(svc *FileStoreService) models.OperationResult { return svc.Update(ctx, "a.txt", updateReq("y")) },
		},
		{
			name: "Delete fails",
			setup: func(m *MockStorage) {
				m.On("Exists", "a.txt").Return(true, nil)
				m.On("Delete", "a.txt").Return(boom)
			},
			call: func(svc *FileStoreService) models.OperationResult { return svc.Delete(ctx, "a.txt") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStorage := &MockStorage{}
			tt.setup(mockStorage)
			svc := NewFileStoreService(mockStorage)

			res := tt.call(svc)
			assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
			assert.Equal(t, MsgInternalError, res.Message)
			assert.NotContains(t, res.Message, boom.Error())
			mockStorage.AssertExpectations(t)
		})
	}
}

func TestFileStoreService_ValidationSkipsStorage(t *testing.T) {
	mockStorage := &MockStorage{}
	svc := NewFileStoreService(mockStorage)
	ctx := context.Background()

	svc.Create(ctx, models.CreateRequest{})
	svc.Update(ctx, "a.txt", models.UpdateRequest{})

	mockStorage.AssertNotCalled(t, "Exists", mock.Anything)
	mockStorage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestFileStoreService_VanishedBetweenCheckAndAct(t *testing.T) {
	ctx := context.Background()

	mockStorage := &MockStorage{}
	mockStorage.On("Exists", "a.txt").Return(true, nil)
	mockStorage.On("Get", "a.txt").Return(nil, storage.ErrNotFound)
	mockStorage.On("Delete", "a.txt").Return(storage.ErrNotFound)
	svc := NewFileStoreService(mockStorage)

	assert.Equal(t, http.StatusNotFound, svc.Read(ctx, "a.txt").StatusCode)
	assert.Equal(t, http.StatusNotFound, svc.Delete(ctx, "a.txt").StatusCode)
}

func TestFileStoreService_EventCallback(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var events []models.ChangeEvent
	svc.SetEventCallback(func(event models.ChangeEvent) {
		events = append(events, event)
	})

	svc.Create(ctx, createReq("a.txt", "x"))
	svc.Create(ctx, createReq("a.txt", "x"))
	svc.Update(ctx, "a.txt", updateReq("y"))
	svc.Update(ctx, "missing.txt", updateReq("y"))
	svc.Delete(ctx, "a.txt")
	svc.Delete(ctx, "a.txt")

	require.Len(t, events, 3)
	assert.Equal(t, models.EventCreate, events[0].Type)
	assert.Equal(t, models.EventUpdate, events[1].Type)
	assert.Equal(t, models.EventDelete, events[2].Type)
	for _, event := range events {
		assert.Equal(t, "a.txt", event.Filename)
		assert.Equal(t, models.SourceAPI, event.Source)
		assert.False(t, event.Timestamp.IsZero())
	}
}
