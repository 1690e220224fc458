// Пакет hashname — генерация ключей хранения файлов.
// Ключ неугадываем без соли и устойчив к коллизиям: свежая
// криптослучайная соль на каждый вызов плюс медленный PBKDF2-дайджест
// исходного имени файла.
package hashname

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// saltLen — длина соли в байтах (32 hex-символа в ключе).
	saltLen = 16
	// digestLen — длина усечённого дайджеста в байтах (32 hex-символа в ключе).
	digestLen = 16
	// iterations — число итераций PBKDF2. Медленная функция намеренно:
	// ключ играет роль bearer-capability при скачивании.
	iterations = 100000
)

// Generate возвращает ключ хранения для файла с исходным именем name
// и расширением ext (с точкой, может быть пустым).
// Формат: hex(salt) + ":" + hex(digest)[:32] + ext.
// Повторные вызовы с одним именем дают разные ключи (свежая соль).
func Generate(name, ext string) string {
	salt := make([]byte, saltLen)
	// crypto/rand.Read не возвращает ошибку: при недоступности
	// источника энтропии программа аварийно завершается.
	_, _ = rand.Read(salt)

	digest := pbkdf2.Key([]byte(name), salt, iterations, digestLen, sha256.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest) + ext
}
