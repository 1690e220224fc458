// Пакет filestore — операции с физическими файлами на диске.
// Байты лежат под {root}/{subpath}/{key}, где subpath — подкаталог
// категории, key — ключ хранения. Ключи никогда не переиспользуются,
// поэтому конкурентные писатели не претендуют на один путь.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore — управление физическими файлами под корневой директорией.
type FileStore struct {
	// root — корневая директория хранения (FS_FILE_STORAGE)
	root string
}

// New создаёт FileStore. Проверяет и создаёт корневую директорию,
// если она не существует.
func New(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// SaveFile записывает данные из reader в {root}/{subpath}/{key},
// создавая подкаталог при необходимости. Возвращает число записанных байт.
//
// Паттерн: temp файл → запись → fsync → atomic rename.
// При ошибке temp файл удаляется; частично записанный файл никогда
// не виден под финальным именем.
func (fs *FileStore) SaveFile(subpath, key string, reader io.Reader) (int64, error) {
	fullPath, err := fs.resolve(subpath, key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return 0, fmt.Errorf("не удалось создать подкаталог %s: %w", subpath, err)
	}

	tmpPath := fullPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	size, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return size, nil
}

// Open открывает файл для чтения и возвращает *os.File.
// Вызывающий код обязан закрыть файл.
func (fs *FileStore) Open(subpath, key string) (*os.File, error) {
	fullPath, err := fs.resolve(subpath, key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("файл не найден: %s/%s", subpath, key)
		}
		return nil, fmt.Errorf("ошибка открытия файла %s/%s: %w", subpath, key, err)
	}
	return f, nil
}

// FileExists проверяет существование файла на диске.
func (fs *FileStore) FileExists(subpath, key string) bool {
	fullPath, err := fs.resolve(subpath, key)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// DeleteFile удаляет файл с диска. Возвращает nil, если файл уже не существует.
func (fs *FileStore) DeleteFile(subpath, key string) error {
	fullPath, err := fs.resolve(subpath, key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла %s/%s: %w", subpath, key, err)
	}
	return nil
}

// Root возвращает путь к корневой директории данных.
func (fs *FileStore) Root() string {
	return fs.root
}

// resolve строит абсолютный путь {root}/{subpath}/{key}, отклоняя
// имена, способные выйти за пределы корня. Ключи с хэш-именами безопасны
// по построению; проверка защищает путь с сырым клиентским именем
// (mobile-package) и скачивание по ключу из URL.
func (fs *FileStore) resolve(subpath, key string) (string, error) {
	if !SafeName(key) {
		return "", fmt.Errorf("недопустимое имя файла: %q", key)
	}
	return filepath.Join(fs.root, subpath, key), nil
}

// SafeName проверяет, что имя — одиночный безопасный компонент пути:
// без разделителей, не ".." и не пустое.
func SafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}
