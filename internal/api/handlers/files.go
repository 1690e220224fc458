// files.go — HTTP handlers файловых операций: upload, download, list.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/gomediafiles/internal/api/errors"
	"github.com/bigkaa/gomediafiles/internal/api/middleware"
	"github.com/bigkaa/gomediafiles/internal/domain/category"
	"github.com/bigkaa/gomediafiles/internal/domain/model"
	"github.com/bigkaa/gomediafiles/internal/service"
)

// maxMultipartMemory — буфер разбора multipart form (сверх него — temp файлы).
const maxMultipartMemory = 32 << 20 // 32 MiB

// FilesHandler — обработчик файловых endpoints.
type FilesHandler struct {
	uploadSvc   *service.UploadService
	downloadSvc *service.DownloadService
}

// NewFilesHandler создаёт обработчик файловых endpoints.
func NewFilesHandler(uploadSvc *service.UploadService, downloadSvc *service.DownloadService) *FilesHandler {
	return &FilesHandler{
		uploadSvc:   uploadSvc,
		downloadSvc: downloadSvc,
	}
}

// uploadResponse — тело успешного ответа загрузки.
type uploadResponse struct {
	Status bool   `json:"status"`
	URL    string `json:"url"`
}

// listResponse — тело успешного ответа листинга.
type listResponse struct {
	Status bool               `json:"status"`
	Items  []service.FileItem `json:"items"`
}

// Upload обрабатывает POST /upload/{category}.
// Multipart form: file (обязательно). Категория — сегмент URL
// (photo, video, audio, document, mobile).
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	cat := category.ByRoute(chi.URLParam(r, "category"))
	if cat == nil {
		apierrors.NotFound(w)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		apierrors.ValidationError(w, "Ошибка разбора multipart: "+err.Error(), nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "Поле 'file' обязательно", nil)
		return
	}
	defer file.Close()

	result, uploadErr := h.uploadSvc.Upload(r.Context(), service.UploadParams{
		Category: cat,
		Reader:   file,
		Filename: header.Filename,
		Size:     header.Size,
		UserID:   middleware.UserIDFromContext(r.Context()),
	})
	if uploadErr != nil {
		writeServiceError(w, uploadErr.StatusCode, uploadErr.Message)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{Status: true, URL: result.URL})
}

// Download обрабатывает GET /files/{category}/{hash}.
// Категория здесь — подкаталог хранения (photos, videos, ...).
// Аутентификация не требуется: неугадываемый хэш и есть авторизация.
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	cat := category.BySubpath(chi.URLParam(r, "category"))
	if cat == nil {
		apierrors.NotFound(w)
		return
	}

	hash := chi.URLParam(r, "hash")
	if downloadErr := h.downloadSvc.Serve(w, r, cat, hash); downloadErr != nil {
		writeServiceError(w, downloadErr.StatusCode, downloadErr.Message)
	}
}

// ListMine обрабатывает GET /files/{category}/all.
// Категория — сегмент URL в единственном числе (photo, video, audio,
// document); листинга mobile-package в контракте нет.
func (h *FilesHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	cat := category.ByRoute(chi.URLParam(r, "category"))
	if cat == nil || cat.Tag == model.TypeMobile {
		apierrors.NotFound(w)
		return
	}

	items, listErr := h.downloadSvc.ListMine(r.Context(), middleware.UserIDFromContext(r.Context()))
	if listErr != nil {
		writeServiceError(w, listErr.StatusCode, listErr.Message)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Status: true, Items: items})
}

// writeServiceError транслирует ошибку сервисного слоя в JSON-ответ:
// 5xx — формат внутренней ошибки, остальное — доменный формат.
func writeServiceError(w http.ResponseWriter, statusCode int, message string) {
	if statusCode >= 500 {
		apierrors.InternalError(w, message)
		return
	}
	apierrors.WriteMessage(w, statusCode, message)
}
