// upload.go — сервис загрузки файлов.
//
// Порядок шагов фиксирован контрактом:
// валидация → ключ хранения → INSERT метаданных (checkpoint
// долговечности) → запись байтов на диск. Коммит метаданных
// happens-before записи байтов; сбой записи после коммита НЕ
// компенсируется — запись остаётся, скачивание деградирует в 404.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bigkaa/gomediafiles/internal/api/middleware"
	"github.com/bigkaa/gomediafiles/internal/domain/category"
	"github.com/bigkaa/gomediafiles/internal/domain/model"
	"github.com/bigkaa/gomediafiles/internal/hashname"
	"github.com/bigkaa/gomediafiles/internal/repository"
	"github.com/bigkaa/gomediafiles/internal/storage/filestore"
)

// Машиночитаемые коды ошибок сервисного слоя (логи и метрики).
const (
	codeExtensionNotAllowed = "extension_not_allowed"
	codeFileTooLarge        = "file_too_large"
	codeInvalidFilename     = "invalid_filename"
	codeDuplicateKey        = "duplicate_key"
	codeNotFound            = "not_found"
	codeInternalError       = "internal_error"
)

// UploadParams — параметры загрузки файла.
type UploadParams struct {
	// Category — политика категории (из сегмента URL)
	Category *category.Category
	// Reader — поток данных файла
	Reader io.Reader
	// Filename — оригинальное имя файла от клиента
	Filename string
	// Size — заявленный размер файла (из multipart part)
	Size int64
	// UserID — идентификатор владельца (claim id из JWT)
	UserID int64
}

// UploadResult — результат загрузки файла.
type UploadResult struct {
	// Hash — ключ хранения (публичный идентификатор)
	Hash string
	// URL — публичный URL скачивания
	URL string
}

// UploadError — ошибка загрузки с HTTP-кодом.
type UploadError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UploadService — сервис загрузки файлов.
type UploadService struct {
	repo          repository.FileRepository
	store         *filestore.FileStore
	fileServerURL string
	logger        *slog.Logger
}

// NewUploadService создаёт сервис загрузки файлов.
func NewUploadService(
	repo repository.FileRepository,
	store *filestore.FileStore,
	fileServerURL string,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		repo:          repo,
		store:         store,
		fileServerURL: fileServerURL,
		logger:        logger.With(slog.String("component", "upload_service")),
	}
}

// Upload загружает файл в хранилище.
//
// Поток:
//  1. Проверка расширения по allow-list категории
//  2. Проверка размера (граница строгая: size >= лимита отклоняется)
//  3. Ключ хранения: hashname либо сырое имя файла (mobile-package)
//  4. INSERT FileRecord с is_active=true — с этого момента файл
//     существует с точки зрения API
//  5. Запись байтов в {subpath}/{key}
func (s *UploadService) Upload(ctx context.Context, params UploadParams) (*UploadResult, *UploadError) {
	cat := params.Category

	// 1. Расширение
	ext := strings.ToLower(filepath.Ext(params.Filename))
	if !cat.AllowsExtension(ext) {
		return nil, &UploadError{
			StatusCode: 403,
			Code:       codeExtensionNotAllowed,
			Message:    fmt.Sprintf("Extension error. Available: %s", strings.Join(cat.Extensions, " ")),
		}
	}

	// 2. Размер
	if params.Size >= cat.MaxFileSize {
		return nil, &UploadError{
			StatusCode: 403,
			Code:       codeFileTooLarge,
			Message:    "Допустимый размер файла превышен",
		}
	}

	// 3. Ключ хранения
	var key string
	if cat.HashedName {
		key = hashname.Generate(params.Filename, ext)
	} else {
		// mobile-package: ключом служит сырое имя файла (контракт API).
		// Имя обязано быть одиночным безопасным компонентом пути.
		if !filestore.SafeName(params.Filename) {
			return nil, &UploadError{
				StatusCode: 422,
				Code:       codeInvalidFilename,
				Message:    "Недопустимое имя файла",
			}
		}
		key = params.Filename
	}

	// 4. Метаданные — checkpoint долговечности
	rec, err := s.repo.Insert(ctx, &model.FileRecord{
		Name:     params.Filename,
		Hash:     key,
		Path:     cat.Subpath,
		Type:     cat.Tag,
		UserID:   params.UserID,
		IsActive: true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			middleware.OperationsTotal.WithLabelValues("upload", cat.Tag, codeDuplicateKey).Inc()
			return nil, &UploadError{
				StatusCode: 409,
				Code:       codeDuplicateKey,
				Message:    "Ключ хранения уже существует, повторите загрузку",
			}
		}
		s.logger.Error("Ошибка вставки метаданных",
			slog.String("filename", params.Filename),
			slog.String("category", cat.Tag),
			slog.String("error", err.Error()),
		)
		return nil, &UploadError{
			StatusCode: 500,
			Code:       codeInternalError,
			Message:    "Ошибка сохранения метаданных",
		}
	}

	// 5. Байты. Запись после коммита метаданных не откатывается:
	// при сбое остаётся phantom-запись, скачивание вернёт 404.
	size, err := s.store.SaveFile(cat.Subpath, key, params.Reader)
	if err != nil {
		s.logger.Error("Ошибка записи байтов после коммита метаданных (запись сохранена)",
			slog.Int64("id", rec.ID),
			slog.String("hash", key),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("upload", cat.Tag, "error").Inc()
		return nil, &UploadError{
			StatusCode: 500,
			Code:       codeInternalError,
			Message:    "Ошибка сохранения файла на диск",
		}
	}

	middleware.OperationsTotal.WithLabelValues("upload", cat.Tag, "success").Inc()

	s.logger.Info("Файл загружен",
		slog.Int64("id", rec.ID),
		slog.String("filename", params.Filename),
		slog.String("hash", key),
		slog.String("category", cat.Tag),
		slog.Int64("size", size),
		slog.Int64("user_id", params.UserID),
	)

	return &UploadResult{
		Hash: key,
		URL:  publicFileURL(s.fileServerURL, cat.Subpath, key),
	}, nil
}

// publicFileURL строит публичный URL скачивания:
// {fileServerURL}/files/{subpath}/{key}.
func publicFileURL(base, subpath, key string) string {
	return strings.TrimRight(base, "/") + "/files/" + subpath + "/" + key
}
