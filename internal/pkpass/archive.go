package pkpass

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zip"
)

// Pack упаковывает файлы, manifest.json и signature в ZIP без подкаталогов.
// Хэши считаются по несжатому содержимому, поэтому метод сжатия на них не влияет.
func Pack(files []File, manifest, signature []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	all := make([]File, 0, len(files)+2)
	all = append(all, files...)
	all = append(all, File{Name: FileManifest, Data: manifest}, File{Name: FileSignature, Data: signature})

	for _, f := range all {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("zip %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("zip %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}
