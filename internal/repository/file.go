// file.go — репозиторий записей файлов (таблица files).
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bigkaa/gomediafiles/internal/domain/model"
)

// fileColumns — список столбцов таблицы files для SELECT-запросов.
// DRY: одно место для всех SELECT'ов.
const fileColumns = `id, name, hash, path, type, user_id, is_active, create_date, modify_date`

// FileRepository — интерфейс доступа к записям файлов.
// Все операции чтения для путей выдачи неявно добавляют is_active = TRUE
// к условиям вызывающего кода: soft-deleted записи невидимы.
type FileRepository interface {
	// Insert вставляет запись и возвращает её с назначенными id и
	// таймстампами. Коллизия hash — ErrDuplicateKey.
	Insert(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error)
	// GetByHash возвращает активную запись по ключу хранения или ErrNotFound.
	GetByHash(ctx context.Context, hash string) (*model.FileRecord, error)
	// ListByUser возвращает все активные записи владельца.
	// Пустой срез — не ошибка.
	ListByUser(ctx context.Context, userID int64) ([]*model.FileRecord, error)
	// Update изменяет указанные поля записи, обновляя modify_date.
	// Не задействован HTTP-endpoint'ами, присутствует для полноты слоя.
	Update(ctx context.Context, id int64, upd UpdateParams) (*model.FileRecord, error)
	// Delete удаляет запись физически. Не задействован HTTP-endpoint'ами.
	Delete(ctx context.Context, id int64) error
}

// UpdateParams — изменяемые поля записи. nil = поле не трогаем.
type UpdateParams struct {
	Name     *string
	IsActive *bool
}

// fileRepo — реализация FileRepository через pgx.
type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий файлов.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

// Insert вставляет запись. Уникальный индекс по hash — единственная
// страховка от конкурентной коллизии ключей: нарушение всплывает как
// ErrDuplicateKey, а не как молчаливая перезапись.
func (r *fileRepo) Insert(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error) {
	query := `
		INSERT INTO files (name, hash, path, type, user_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, create_date, modify_date`

	out := *rec
	err := r.db.QueryRow(ctx, query,
		rec.Name, rec.Hash, rec.Path, rec.Type, rec.UserID, rec.IsActive,
	).Scan(&out.ID, &out.CreateDate, &out.ModifyDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("ошибка вставки записи файла: %w", err)
	}
	return &out, nil
}

// GetByHash возвращает активную запись по ключу хранения или ErrNotFound.
// Неактивная запись неотличима от несуществующей — намеренно.
func (r *fileRepo) GetByHash(ctx context.Context, hash string) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE hash = $1 AND is_active = TRUE`, fileColumns)

	rec := &model.FileRecord{}
	err := r.db.QueryRow(ctx, query, hash).Scan(
		&rec.ID, &rec.Name, &rec.Hash, &rec.Path, &rec.Type,
		&rec.UserID, &rec.IsActive, &rec.CreateDate, &rec.ModifyDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи файла: %w", err)
	}
	return rec, nil
}

// ListByUser возвращает все активные записи владельца, новые первыми.
func (r *fileRepo) ListByUser(ctx context.Context, userID int64) ([]*model.FileRecord, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM files WHERE user_id = $1 AND is_active = TRUE ORDER BY create_date DESC, id DESC`,
		fileColumns,
	)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки файлов пользователя: %w", err)
	}
	defer rows.Close()

	var result []*model.FileRecord
	for rows.Next() {
		rec := &model.FileRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Hash, &rec.Path, &rec.Type,
			&rec.UserID, &rec.IsActive, &rec.CreateDate, &rec.ModifyDate,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи файла: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}
	return result, nil
}

// Update изменяет указанные поля записи и возвращает обновлённую версию.
// modify_date обновляется всегда; пустой UpdateParams — ошибка вызывающего.
func (r *fileRepo) Update(ctx context.Context, id int64, upd UpdateParams) (*model.FileRecord, error) {
	setClause, args := buildUpdateSet(upd, 1)
	if len(args) == 0 {
		return nil, fmt.Errorf("нет полей для обновления")
	}

	argNum := len(args) + 1
	query := fmt.Sprintf(
		`UPDATE files SET %s WHERE id = $%d RETURNING %s`,
		setClause, argNum, fileColumns,
	)
	args = append(args, id)

	rec := &model.FileRecord{}
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&rec.ID, &rec.Name, &rec.Hash, &rec.Path, &rec.Type,
		&rec.UserID, &rec.IsActive, &rec.CreateDate, &rec.ModifyDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления записи файла: %w", err)
	}
	return rec, nil
}

// Delete удаляет запись физически. Отсутствующая запись — ErrNotFound.
func (r *fileRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления записи файла: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// buildUpdateSet строит SET-часть UPDATE-запроса и аргументы.
// startArg — номер первого $-параметра (для корректной нумерации).
// modify_date = now() добавляется всегда.
func buildUpdateSet(upd UpdateParams, startArg int) (setClause string, args []any) {
	var parts []string
	argNum := startArg

	if upd.Name != nil {
		parts = append(parts, fmt.Sprintf("name = $%d", argNum))
		args = append(args, *upd.Name)
		argNum++
	}
	if upd.IsActive != nil {
		parts = append(parts, fmt.Sprintf("is_active = $%d", argNum))
		args = append(args, *upd.IsActive)
	}

	if len(parts) == 0 {
		return "", nil
	}
	parts = append(parts, "modify_date = now()")
	return strings.Join(parts, ", "), args
}
