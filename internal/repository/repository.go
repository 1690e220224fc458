// Пакет repository — слой доступа к данным PostgreSQL.
// Единственный владелец жизненного цикла FileRecord: сервисы никогда
// не изменяют записи напрямую, только через типизированные операции.
// Все запросы — чистый SQL через pgx, без ORM.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена (или скрыта флагом is_active).
	ErrNotFound = errors.New("запись не найдена")
	// ErrDuplicateKey — нарушение уникальности hash при вставке.
	// Статистически пренебрежимо при случайной соли; клиент может
	// повторить загрузку — будет сгенерирован новый ключ.
	ErrDuplicateKey = errors.New("ключ хранения уже существует")
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
