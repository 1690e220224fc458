// download.go — сервис выдачи файлов: скачивание по хэшу и листинг
// файлов владельца.
//
// Скачивание по хэшу — bearer-capability модель: знание неугадываемого
// ключа и есть авторизация, владелец не проверяется. Листинг, напротив,
// отдаёт только файлы аутентифицированного владельца.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/bigkaa/gomediafiles/internal/api/middleware"
	"github.com/bigkaa/gomediafiles/internal/domain/category"
	"github.com/bigkaa/gomediafiles/internal/domain/model"
	"github.com/bigkaa/gomediafiles/internal/repository"
	"github.com/bigkaa/gomediafiles/internal/storage/filestore"
)

// clientCacheMaxAge — окно кэширования ответа клиентами и прокси (7 дней).
const clientCacheMaxAge = 7 * 24 * time.Hour

// DownloadError — ошибка выдачи файла с HTTP-кодом.
type DownloadError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FileItem — публичная проекция записи файла для листинга.
type FileItem struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Hash       string    `json:"hash"`
	CreateDate time.Time `json:"create_date"`
	URL        string    `json:"url"`
}

// DownloadService — сервис выдачи файлов.
type DownloadService struct {
	repo          repository.FileRepository
	store         *filestore.FileStore
	cache         *CacheService
	fileServerURL string
	logger        *slog.Logger
}

// NewDownloadService создаёт сервис выдачи файлов.
func NewDownloadService(
	repo repository.FileRepository,
	store *filestore.FileStore,
	cache *CacheService,
	fileServerURL string,
	logger *slog.Logger,
) *DownloadService {
	return &DownloadService{
		repo:          repo,
		store:         store,
		cache:         cache,
		fileServerURL: fileServerURL,
		logger:        logger.With(slog.String("component", "download_service")),
	}
}

// Serve отдаёт файл клиенту через http.ServeContent.
// Метаданные берутся из LRU-кэша (окно свежести 7 дней) либо из БД;
// неактивные записи для чтения невидимы. Отсутствие байтов на диске
// при живой записи (phantom после сбоя записи) деградирует в 404.
func (s *DownloadService) Serve(w http.ResponseWriter, r *http.Request, cat *category.Category, hash string) *DownloadError {
	// 1. Метаданные: кэш → БД
	meta, ok := s.cache.Get(hash)
	if !ok {
		var err error
		meta, err = s.repo.GetByHash(r.Context(), hash)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &DownloadError{
					StatusCode: 404,
					Code:       codeNotFound,
					Message:    "Запрашиваемый ресурс не найден",
				}
			}
			s.logger.Error("Ошибка чтения метаданных",
				slog.String("hash", hash),
				slog.String("error", err.Error()),
			)
			return &DownloadError{
				StatusCode: 500,
				Code:       codeInternalError,
				Message:    "Ошибка чтения метаданных",
			}
		}
		s.cache.Set(hash, meta)
	}

	// 2. Байты: {subpath}/{hash} из категории URL
	file, err := s.store.Open(cat.Subpath, hash)
	if err != nil {
		s.logger.Warn("Запись есть, байты на диске отсутствуют",
			slog.String("hash", hash),
			slog.String("subpath", cat.Subpath),
			slog.String("error", err.Error()),
		)
		return &DownloadError{
			StatusCode: 404,
			Code:       codeNotFound,
			Message:    "Запрашиваемый ресурс не найден",
		}
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return &DownloadError{
			StatusCode: 500,
			Code:       codeInternalError,
			Message:    "Ошибка чтения файла",
		}
	}

	// 3. Заголовки. Content-Type выводится из расширения ключа хранения.
	if ct := mime.TypeByExtension(filepath.Ext(hash)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(clientCacheMaxAge.Seconds())))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", meta.Name))

	// 4. http.ServeContent обрабатывает Range, If-Modified-Since, Content-Length
	http.ServeContent(w, r, meta.Name, stat.ModTime(), file)

	middleware.OperationsTotal.WithLabelValues("download", cat.Tag, "success").Inc()

	s.logger.Debug("Файл отдан",
		slog.String("hash", hash),
		slog.String("filename", meta.Name),
		slog.Int64("size", stat.Size()),
	)

	return nil
}

// ListMine возвращает все активные файлы владельца в публичной проекции.
// Пустой срез — не ошибка. URL каждого элемента строится от собственного
// типа записи, а не от категории запроса.
func (s *DownloadService) ListMine(ctx context.Context, userID int64) ([]FileItem, *DownloadError) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Ошибка выборки файлов пользователя",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, &DownloadError{
			StatusCode: 500,
			Code:       codeInternalError,
			Message:    "Ошибка выборки файлов",
		}
	}

	items := make([]FileItem, 0, len(records))
	for _, rec := range records {
		items = append(items, s.toItem(rec))
	}
	return items, nil
}

// toItem строит публичную проекцию записи файла.
func (s *DownloadService) toItem(rec *model.FileRecord) FileItem {
	subpath := rec.Path
	if cat := category.ByTag(rec.Type); cat != nil {
		subpath = cat.Subpath
	}
	return FileItem{
		ID:         rec.ID,
		Name:       rec.Name,
		Hash:       rec.Hash,
		CreateDate: rec.CreateDate,
		URL:        publicFileURL(s.fileServerURL, subpath, rec.Hash),
	}
}
