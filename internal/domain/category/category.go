// Пакет category — политика категорий медиафайлов.
// Статическая таблица: лимит размера, допустимые расширения,
// подкаталог хранения. Неизменяема после инициализации процесса.
package category

import (
	"strings"

	"github.com/bigkaa/gomediafiles/internal/domain/model"
)

// MiB — множитель для лимитов размера файлов.
const MiB = 1 << 20

// Category — политика одной категории медиафайлов.
type Category struct {
	// Tag — тег категории, хранится в колонке type (model.TypePhoto и т.д.)
	Tag string
	// Route — сегмент URL для upload/list endpoints ("photo", "mobile")
	Route string
	// Subpath — подкаталог хранения и сегмент URL скачивания ("photos", "mobiles")
	Subpath string
	// MaxFileSize — лимит размера в байтах; размер >= лимита отклоняется
	MaxFileSize int64
	// Extensions — допустимые расширения (с точкой, в нижнем регистре)
	Extensions []string
	// HashedName — true: ключ хранения генерируется hashname;
	// false: ключом служит исходное имя файла (только mobile-package)
	HashedName bool
}

// categories — таблица политик. Лимиты и расширения фиксированы контрактом API.
var categories = []*Category{
	{
		Tag:         model.TypePhoto,
		Route:       "photo",
		Subpath:     "photos",
		MaxFileSize: 10 * MiB,
		Extensions:  []string{".jpeg", ".jpg", ".png", ".mpeg", ".ico"},
		HashedName:  true,
	},
	{
		Tag:         model.TypeVideo,
		Route:       "video",
		Subpath:     "videos",
		MaxFileSize: 75 * MiB,
		Extensions:  []string{".mp4", ".mow"},
		HashedName:  true,
	},
	{
		Tag:         model.TypeAudio,
		Route:       "audio",
		Subpath:     "audios",
		MaxFileSize: 10 * MiB,
		Extensions:  []string{".mp3", ".wav", ".ogg"},
		HashedName:  true,
	},
	{
		Tag:         model.TypeDocument,
		Route:       "document",
		Subpath:     "documents",
		MaxFileSize: 5 * MiB,
		Extensions:  []string{".txt", ".pdf", ".env"},
		HashedName:  true,
	},
	{
		Tag:         model.TypeMobile,
		Route:       "mobile",
		Subpath:     "mobiles",
		MaxFileSize: 65 * MiB,
		Extensions:  []string{".apk"},
		HashedName:  false,
	},
}

// Индексы для поиска по тегу, сегменту URL и подкаталогу.
var (
	byTag     = make(map[string]*Category, len(categories))
	byRoute   = make(map[string]*Category, len(categories))
	bySubpath = make(map[string]*Category, len(categories))
)

func init() {
	for _, c := range categories {
		byTag[c.Tag] = c
		byRoute[c.Route] = c
		bySubpath[c.Subpath] = c
	}
}

// All возвращает все категории в порядке объявления.
func All() []*Category {
	return categories
}

// ByTag возвращает категорию по тегу (значению колонки type) или nil.
func ByTag(tag string) *Category {
	return byTag[tag]
}

// ByRoute возвращает категорию по сегменту URL ("photo", "mobile") или nil.
func ByRoute(route string) *Category {
	return byRoute[route]
}

// BySubpath возвращает категорию по подкаталогу хранения ("photos") или nil.
func BySubpath(subpath string) *Category {
	return bySubpath[subpath]
}

// AllowsExtension проверяет, допустимо ли расширение для категории.
// Сравнение без учёта регистра.
func (c *Category) AllowsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
