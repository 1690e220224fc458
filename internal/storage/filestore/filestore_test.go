package filestore

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// TestNew_CreatesDirectory проверяет создание корневой директории.
func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storage")

	fs, err := New(dir)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	if fs.Root() != dir {
		t.Errorf("ожидался корень %s, получен %s", dir, fs.Root())
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("директория не создана: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("путь не является директорией")
	}
}

// TestSaveFile_Roundtrip проверяет запись и чтение файла,
// включая создание подкаталога категории.
func TestSaveFile_Roundtrip(t *testing.T) {
	fs, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	content := []byte("Тестовые данные файла.")
	size, err := fs.SaveFile("photos", "abc123.jpg", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}
	if size != int64(len(content)) {
		t.Errorf("размер: ожидалось %d, получено %d", len(content), size)
	}

	if !fs.FileExists("photos", "abc123.jpg") {
		t.Fatal("файл должен существовать после записи")
	}

	f, err := fs.Open("photos", "abc123.jpg")
	if err != nil {
		t.Fatalf("ошибка открытия: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ошибка чтения: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("прочитанные данные не совпадают с записанными")
	}
}

// TestSaveFile_NoTempLeftover проверяет, что после успешной записи
// temp файл не остаётся на диске.
func TestSaveFile_NoTempLeftover(t *testing.T) {
	root := t.TempDir()
	fs, err := New(root)
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	if _, err := fs.SaveFile("videos", "key.mp4", bytes.NewReader([]byte("data"))); err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "videos", "key.mp4.tmp")); !os.IsNotExist(err) {
		t.Error("временный файл должен быть удалён после rename")
	}
}

// TestOpen_NotFound проверяет ошибку открытия несуществующего файла.
func TestOpen_NotFound(t *testing.T) {
	fs, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	if _, err := fs.Open("photos", "missing.jpg"); err == nil {
		t.Error("ожидалась ошибка для несуществующего файла")
	}
}

// TestDeleteFile проверяет удаление и идемпотентность повторного удаления.
func TestDeleteFile(t *testing.T) {
	fs, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	if _, err := fs.SaveFile("documents", "doc.pdf", bytes.NewReader([]byte("pdf"))); err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	if err := fs.DeleteFile("documents", "doc.pdf"); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if fs.FileExists("documents", "doc.pdf") {
		t.Error("файл должен быть удалён")
	}

	// Повторное удаление — не ошибка
	if err := fs.DeleteFile("documents", "doc.pdf"); err != nil {
		t.Errorf("повторное удаление должно быть идемпотентным: %v", err)
	}
}

// TestSaveFile_UnsafeKey проверяет отклонение ключей, способных
// выйти за пределы корня хранилища.
func TestSaveFile_UnsafeKey(t *testing.T) {
	fs, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	unsafe := []string{"", ".", "..", "../escape.apk", "a/b.apk", `a\b.apk`}
	for _, key := range unsafe {
		if _, err := fs.SaveFile("mobiles", key, bytes.NewReader([]byte("x"))); err == nil {
			t.Errorf("ключ %q должен быть отклонён", key)
		}
	}
}

// TestSafeName проверяет классификацию имён файлов.
func TestSafeName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"app-1.2.3.apk", true},
		{"file.txt", true},
		{"имя.jpg", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../up.apk", false},
		{"dir/file.apk", false},
		{`dir\file.apk`, false},
	}

	for _, tc := range tests {
		if got := SafeName(tc.name); got != tc.want {
			t.Errorf("SafeName(%q): ожидалось %v, получено %v", tc.name, tc.want, got)
		}
	}
}
