package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PatxiBS/ud2-storageFork/internal/models"
	"github.com/PatxiBS/ud2-storageFork/internal/storage"
	"github.com/sirupsen/logrus"
)

// Response messages returned to clients.
const (
	MsgListed         = "Listado de ficheros"
	MsgInvalidParams  = "Faltan parámetros requeridos o son inválidos."
	MsgAlreadyExists  = "El archivo ya existe"
	MsgSaved          = "Guardado con éxito"
	MsgFileNotFound   = "Archivo no encontrado"
	MsgRead           = "Archivo leído con éxito"
	MsgContentMissing = "El contenido es obligatorio"
	MsgDoesNotExist   = "El archivo no existe"
	MsgUpdated        = "Actualizado con éxito"
	MsgDeleted        = "Eliminado con éxito"
	MsgInternalError  = "Error interno del servidor"
)

// FileStoreService maps the five file operations onto a storage provider.
//
// Create and Update check existence before writing without holding a lock,
// so concurrent mutations of the same name may interleave.
type FileStoreService struct {
	provider      storage.StorageProvider
	eventCallback func(event models.ChangeEvent)
}

// Creates a new FileStoreService on top of provider.
func NewFileStoreService(provider storage.StorageProvider) *FileStoreService {
	return &FileStoreService{provider: provider}
}

// Sets a callback invoked after every successful mutation.
func (s *FileStoreService) SetEventCallback(callback func(event models.ChangeEvent)) {
	s.eventCallback = callback
}

// Lists every file name in the namespace.
func (s *FileStoreService) List(ctx context.Context) models.OperationResult {
	names, err := s.provider.List(ctx)
	if err != nil {
		return s.storageFailure("list", "", err)
	}
	if names == nil {
		names = []string{}
	}
	return result(http.StatusOK, MsgListed, names)
}

// Stores a new file. Existing files are never overwritten.
func (s *FileStoreService) Create(ctx context.Context, req models.CreateRequest) models.OperationResult {
	if req.Filename == nil || *req.Filename == "" || req.Content == nil {
		return result(http.StatusUnprocessableEntity, MsgInvalidParams, nil)
	}
	filename, content := *req.Filename, *req.Content

	exists, err := s.provider.Exists(ctx, filename)
	if err != nil {
		return s.storageFailure("create", filename, err)
	}
	if exists {
		return result(http.StatusConflict, MsgAlreadyExists, nil)
	}

	if err := s.provider.Put(ctx, filename, []byte(content)); err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			return result(http.StatusUnprocessableEntity, MsgInvalidParams, nil)
		}
		return s.storageFailure("create", filename, err)
	}

	s.notify(models.EventCreate, filename, "File created")
	return result(http.StatusOK, MsgSaved, nil)
}

// Returns the content of filename.
func (s *FileStoreService) Read(ctx context.Context, filename string) models.OperationResult {
	exists, err := s.provider.Exists(ctx, filename)
	if err != nil {
		return s.storageFailure("read", filename, err)
	}
	if !exists {
		return result(http.StatusNotFound, MsgFileNotFound, nil)
	}

	data, err := s.provider.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return result(http.StatusNotFound, MsgFileNotFound, nil)
		}
		return s.storageFailure("read", filename, err)
	}
	return result(http.StatusOK, MsgRead, string(data))
}

// Replaces the content of an existing file. A missing content field is
// reported before the existence check.
func (s *FileStoreService) Update(ctx context.Context, filename string, req models.UpdateRequest) models.OperationResult {
	if req.Content == nil {
		return result(http.StatusUnprocessableEntity, MsgContentMissing, nil)
	}

	exists, err := s.provider.Exists(ctx, filename)
	if err != nil {
		return s.storageFailure("update", filename, err)
	}
	if !exists {
		return result(http.StatusNotFound, MsgDoesNotExist, nil)
	}

	if err := s.provider.Put(ctx, filename, []byte(*req.Content)); err != nil {
		return s.storageFailure("update", filename, err)
	}

	s.notify(models.EventUpdate, filename, "File updated")
	return result(http.StatusOK, MsgUpdated, nil)
}

// Removes filename from the namespace.
func (s *FileStoreService) Delete(ctx context.Context, filename string) models.OperationResult {
	exists, err := s.provider.Exists(ctx, filename)
	if err != nil {
		return s.storageFailure("delete", filename, err)
	}
	if !exists {
		return result(http.StatusNotFound, MsgDoesNotExist, nil)
	}

	if err := s.provider.Delete(ctx, filename); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return result(http.StatusNotFound, MsgDoesNotExist, nil)
		}
		return s.storageFailure("delete", filename, err)
	}

	s.notify(models.EventDelete, filename, "File deleted")
	return result(http.StatusOK, MsgDeleted, nil)
}

// storageFailure logs the backend error and hides it behind a generic 500.
func (s *FileStoreService) storageFailure(op, filename string, err error) models.OperationResult {
	logrus.WithFields(logrus.Fields{
		"operation": op,
		"filename":  filename,
	}).WithError(err).Error("Storage operation failed")
	return result(http.StatusInternalServerError, MsgInternalError, nil)
}

func (s *FileStoreService) notify(eventType, filename, action string) {
	if s.eventCallback == nil {
		return
	}
	s.eventCallback(models.ChangeEvent{
		Type:      eventType,
		Filename:  filename,
		Source:    models.SourceAPI,
		Timestamp: time.Now(),
		Message:   fmt.Sprintf("%s: %s", action, filename),
	})
}

func result(status int, message string, content interface{}) models.OperationResult {
	return models.OperationResult{
		Message:    message,
		Content:    content,
		StatusCode: status,
	}
}
