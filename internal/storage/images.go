// Package storage 管理上傳的食譜圖片檔案
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// RecipeDir 是圖片相對於 media root 的存放目錄
const RecipeDir = "uploads/recipe"

var (
	// ErrInvalidImage 內容不是可解碼的 JPEG / PNG / GIF / WebP
	ErrInvalidImage = errors.New("upload a valid image. the file you uploaded was either not an image or a corrupted image")
	// ErrInvalidPath 參照不在圖片目錄內
	ErrInvalidPath = errors.New("invalid image path")
)

var newName = uuid.NewString

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// Images 將圖片存在 {root}/uploads/recipe/，並以相對參照（uploads/recipe/<uuid>.jpg）記錄在資料庫
type Images struct {
	root     string
	mediaURL string
	mu       sync.RWMutex
}

func NewImages(root, mediaURL string) (*Images, error) {
	if root == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(RecipeDir)), 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Images{
		root:     root,
		mediaURL: strings.TrimRight(mediaURL, "/"),
	}, nil
}

// Validate 只讀取圖片標頭判斷格式，回傳對應的副檔名
func Validate(data []byte) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrInvalidImage
	}
	ext, ok := extensions[format]
	if !ok || cfg.Width <= 0 || cfg.Height <= 0 {
		return "", ErrInvalidImage
	}
	return ext, nil
}

// Save 驗證後以新的 uuid 檔名寫入，回傳參照
func (s *Images) Save(data []byte) (string, error) {
	ext, err := Validate(data)
	if err != nil {
		return "", err
	}
	ref := path.Join(RecipeDir, newName()+ext)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.fsPath(ref), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return ref, nil
}

// Path 回傳參照對應的檔案路徑；拒絕跳出圖片目錄的參照
func (s *Images) Path(ref string) (string, error) {
	clean := path.Clean("/" + ref)[1:]
	if clean != ref || !strings.HasPrefix(clean, RecipeDir+"/") || path.Dir(clean) != RecipeDir {
		return "", ErrInvalidPath
	}
	return s.fsPath(clean), nil
}

func (s *Images) fsPath(ref string) string {
	return filepath.Join(s.root, filepath.FromSlash(ref))
}

// Delete 移除圖片；空參照與不存在的檔案都不算錯誤
func (s *Images) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	p, err := s.Path(ref)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// URL 將參照轉為對外路徑，例如 /media/uploads/recipe/x.jpg
func (s *Images) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.mediaURL + "/" + ref
}

// BlurHash 計算已儲存圖片的 blurhash
func (s *Images) BlurHash(ref string) (string, error) {
	p, err := s.Path(ref)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return ComputeBlurHash(p)
}
