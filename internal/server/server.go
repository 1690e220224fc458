// Пакет server — HTTP-сервер сервиса медиафайлов с маршрутизацией
// и graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/gomediafiles/internal/api/handlers"
	"github.com/bigkaa/gomediafiles/internal/api/middleware"
	"github.com/bigkaa/gomediafiles/internal/config"
)

// Server — HTTP-сервер сервиса медиафайлов.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, api *handlers.APIHandler, auth *middleware.JWTAuth) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())

	// Загрузка — только с валидным токеном
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		r.Use(middleware.RequireRoles("*"))
		r.Post("/upload/{category}", api.Files.Upload)
	})

	// Листинг файлов владельца — только с валидным токеном.
	// Сегмент {category} обязан называться одинаково в обоих маршрутах
	// /files/..., статический "all" имеет приоритет над {hash}.
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		r.Use(middleware.RequireRoles("*"))
		r.Get("/files/{category}/all", api.Files.ListMine)
	})

	// Скачивание по хэшу — публичное
	router.Get("/files/{category}/{hash}", api.Files.Download)

	// Health и метрики
	router.Get("/health/live", api.Health.Live)
	router.Get("/health/ready", api.Health.Ready)
	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown с таймаутом
// из конфигурации.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
