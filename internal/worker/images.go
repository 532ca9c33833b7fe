package worker

import (
	"context"
	"time"

	"recipe-api/internal/database"
	"recipe-api/internal/store"

	"go.uber.org/zap"
)

// imageTaskTimeout 限制單次圖片後處理寫回資料庫的時間
const imageTaskTimeout = 30 * time.Second

// ImageStore 是圖片後處理需要的儲存操作
type ImageStore interface {
	Delete(ref string) error
	BlurHash(ref string) (string, error)
}

var setRecipeImageBlurHash = store.SetRecipeImageBlurHash

// ImageProcessor 產生上傳與刪除食譜圖片後要在背景執行的工作
type ImageProcessor struct {
	DB     database.DB
	Images ImageStore
	Log    *zap.Logger
}

// AfterUpload 刪除被取代的舊圖並計算新圖的 blurhash
func (p *ImageProcessor) AfterUpload(recipeID int, ref, prev string) Task {
	return func() {
		if prev != "" && prev != ref {
			p.remove(prev)
		}

		hash, err := p.Images.BlurHash(ref)
		if err != nil {
			p.Log.Warn("compute blurhash failed",
				zap.Int("recipe_id", recipeID),
				zap.String("image", ref),
				zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), imageTaskTimeout)
		defer cancel()
		if err := setRecipeImageBlurHash(ctx, p.DB, recipeID, ref, hash); err != nil {
			p.Log.Error("store blurhash failed",
				zap.Int("recipe_id", recipeID),
				zap.Error(err))
			return
		}
		p.Log.Debug("blurhash stored", zap.Int("recipe_id", recipeID), zap.String("blurhash", hash))
	}
}

// Remove 刪除不再被引用的圖片檔
func (p *ImageProcessor) Remove(ref string) Task {
	return func() {
		if ref != "" {
			p.remove(ref)
		}
	}
}

func (p *ImageProcessor) remove(ref string) {
	if err := p.Images.Delete(ref); err != nil {
		p.Log.Warn("delete image failed", zap.String("image", ref), zap.Error(err))
	}
}

// ImageJobs 將圖片工作送進 pool
type ImageJobs struct {
	Pool      Pool
	Processor *ImageProcessor
}

func (j *ImageJobs) AfterUpload(recipeID int, ref, prev string) {
	j.submit(j.Processor.AfterUpload(recipeID, ref, prev))
}

func (j *ImageJobs) Remove(ref string) {
	if ref == "" {
		return
	}
	j.submit(j.Processor.Remove(ref))
}

func (j *ImageJobs) submit(t Task) {
	if err := j.Pool.Submit(t); err != nil {
		j.Processor.Log.Warn("submit image task failed", zap.Error(err))
	}
}
