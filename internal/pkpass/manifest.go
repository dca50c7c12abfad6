package pkpass

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
)

// Имена файлов в корне архива
const (
	FilePass       = "pass.json"
	FileManifest   = "manifest.json"
	FileSignature  = "signature"
	FileIcon       = "icon.png"
	FileLogo       = "logo.png"
	FileBackground = "background.png"
)

// File — файл пакета с окончательным содержимым
type File struct {
	Name string
	Data []byte
}

// Manifest — имя файла -> SHA-1 (hex, нижний регистр) его байтов
type Manifest map[string]string

// NewManifest хэширует каждый файл пакета
func NewManifest(files []File) Manifest {
	m := make(Manifest, len(files))
	for _, f := range files {
		sum := sha1.Sum(f.Data)
		m[f.Name] = hex.EncodeToString(sum[:])
	}
	return m
}

// Bytes — каноничный JSON (ключи отсортированы encoding/json); подписываются именно эти байты
func (m Manifest) Bytes() ([]byte, error) {
	return json.Marshal(map[string]string(m))
}
