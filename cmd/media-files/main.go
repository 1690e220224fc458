// Точка входа сервиса медиафайлов — HTTP-сервиса загрузки и выдачи
// пользовательских файлов.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bigkaa/gomediafiles/internal/api/handlers"
	"github.com/bigkaa/gomediafiles/internal/api/middleware"
	"github.com/bigkaa/gomediafiles/internal/config"
	"github.com/bigkaa/gomediafiles/internal/database"
	"github.com/bigkaa/gomediafiles/internal/repository"
	"github.com/bigkaa/gomediafiles/internal/server"
	"github.com/bigkaa/gomediafiles/internal/service"
	"github.com/bigkaa/gomediafiles/internal/storage/filestore"
)

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Сервис медиафайлов запускается",
		slog.String("version", config.Version),
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("file_storage", cfg.FileStorage),
	)

	// --- Инициализация компонентов ---

	ctx := context.Background()

	// 1. PostgreSQL
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к БД", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 2. Файловое хранилище
	store, err := filestore.New(cfg.FileStorage)
	if err != nil {
		logger.Error("Ошибка инициализации FileStore", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Репозиторий и кэш метаданных
	repo := repository.NewFileRepository(pool)
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)

	// 4. Сервисы
	uploadSvc := service.NewUploadService(repo, store, cfg.FileServerURL, logger)
	downloadSvc := service.NewDownloadService(repo, store, cache, cfg.FileServerURL, logger)

	// 5. Handlers
	filesHandler := handlers.NewFilesHandler(uploadSvc, downloadSvc)
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool))
	apiHandler := handlers.NewAPIHandler(filesHandler, healthHandler)

	// 6. JWT middleware
	jwtAuth := middleware.NewJWTAuth(cfg.SecretKey, cfg.Algorithm, logger)

	// 7. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Сервис медиафайлов остановлен")
}
