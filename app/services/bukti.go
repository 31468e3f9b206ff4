package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const maxLebarBukti = 1280

// SimpanBuktiTransfer decode gambar bukti, perkecil kalau terlalu lebar, simpan sebagai JPEG.
// Mengembalikan path relatif terhadap dir.
func SimpanBuktiTransfer(dir string, nama string, r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode bukti transfer: %w", err)
	}

	if img.Bounds().Dx() > maxLebarBukti {
		img = imaging.Resize(img, maxLebarBukti, 0, imaging.Lanczos)
	}

	rel := filepath.Join("penarikan", nama+".jpg")
	path := filepath.Join(dir, rel)
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("buat folder upload: %w", err)
	}

	if err = imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("simpan bukti transfer: %w", err)
	}

	return filepath.ToSlash(rel), nil
}
