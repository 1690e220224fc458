// Пакет model — доменные модели сервиса медиафайлов.
package model

import "time"

// Типы файлов (категории). Хранятся в колонке type таблицы files.
const (
	TypePhoto    = "photo"
	TypeVideo    = "video"
	TypeAudio    = "audio"
	TypeDocument = "document"
	// TypeMobile — APK-пакеты. Единственная категория, у которой ключ
	// хранения — исходное имя файла, а не производный хэш.
	TypeMobile = "mobile-package"
)

// FileRecord — запись метаданных файла в таблице files.
// Единственное персистентное состояние сервиса помимо байтов на диске.
type FileRecord struct {
	// ID — суррогатный ключ, назначается БД при вставке
	ID int64
	// Name — оригинальное имя файла от клиента (не используется как путь)
	Name string
	// Hash — ключ хранения, уникален глобально, публичный идентификатор
	Hash string
	// Path — подкаталог категории, в котором лежат байты (например, "photos")
	Path string
	// Type — тег категории (TypePhoto и т.д.)
	Type string
	// UserID — идентификатор владельца из JWT (claim id)
	UserID int64
	// IsActive — флаг видимости (soft delete); false-записи невидимы для чтения
	IsActive bool
	// CreateDate — время создания записи, назначается БД
	CreateDate time.Time
	// ModifyDate — время последнего изменения, назначается БД
	ModifyDate time.Time
}
