package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"learnsphere_backend/internal/config"
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/repository"
	"learnsphere_backend/internal/util"
	"learnsphere_backend/pkg/logger"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// allowedVideoExts 支持上传的视频格式
var allowedVideoExts = []string{".mp4", ".webm", ".mov", ".avi", ".mkv"}

const uploadProgressKeyPrefix = "upload_progress:"
const defaultThumbnailKey = "thumbnails/default-video-thumbnail.jpg"

// UploadProgress 分块上传进度，存在Redis中供断点续传查询
type UploadProgress struct {
	Identifier     string       `json:"identifier"`
	Filename       string       `json:"filename"`
	TotalChunks    int          `json:"totalChunks"`
	UploadedChunks int          `json:"uploadedChunks"`
	FileSize       int64        `json:"fileSize"`
	Chunks         map[int]bool `json:"chunks"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// ContentService 章节视频上传与处理
type ContentService struct {
	CourseRepo     *repository.CourseRepository
	StorageService *StorageService
	Cfg            *config.Config
	Redis          *redis.Client
}

func NewContentService(courseRepo *repository.CourseRepository, storageService *StorageService, cfg *config.Config, rdb *redis.Client) *ContentService {
	return &ContentService{
		CourseRepo:     courseRepo,
		StorageService: storageService,
		Cfg:            cfg,
		Redis:          rdb,
	}
}

func validVideoExt(ext string) bool {
	for _, e := range allowedVideoExts {
		if ext == e {
			return true
		}
	}
	return false
}

// UploadVideo 上传章节视频：临时落盘、探测时长、抓取封面帧，再转存对象存储
func (s *ContentService) UploadVideo(ctx context.Context, file *multipart.FileHeader, chapterID uint, title string) (*model.ChapterVideo, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !validVideoExt(ext) {
		return nil, fmt.Errorf("不支持的视频格式: %s", ext)
	}

	if _, err := s.CourseRepo.FindChapterByID(chapterID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, err
	}

	videoPath := filepath.Join(tempDir, fmt.Sprintf("upload_%d%s", time.Now().UnixNano(), ext))
	defer os.Remove(videoPath)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(videoPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	dst.Close()

	return s.processAndStoreVideo(ctx, videoPath, ext, chapterID, title, file.Size, file.Header.Get("Content-Type"))
}

// processAndStoreVideo 探测元信息、生成缩略图并上传，最后写入视频记录
func (s *ContentService) processAndStoreVideo(ctx context.Context, videoPath, ext string, chapterID uint, title string, size int64, contentType string) (*model.ChapterVideo, error) {
	stamp := time.Now().Format("20060102150405")
	videoKey := "videos/" + stamp + "-" + model.GenerateUUID()[:8] + ext

	if contentType == "" {
		contentType = "video/" + strings.TrimPrefix(ext, ".")
	}

	videoURL, err := s.StorageService.UploadFile(ctx, videoKey, videoPath, contentType)
	if err != nil {
		return nil, err
	}

	thumbnailKey := "thumbnails/" + stamp + "-" + model.GenerateUUID()[:8] + ".jpg"
	thumbnailPath := filepath.Join(s.Cfg.Storage.LocalPath, "temp", filepath.Base(thumbnailKey))

	var thumbnailURL string
	if err := util.ExtractThumbnail(videoPath, thumbnailPath, "3"); err != nil {
		logger.Log.Error("生成缩略图失败", zap.Error(err))
		thumbnailURL = s.StorageService.GetURL(defaultThumbnailKey)
	} else {
		thumbnailURL, err = s.StorageService.UploadFile(ctx, thumbnailKey, thumbnailPath, "image/jpeg")
		if err != nil {
			thumbnailURL = s.StorageService.GetURL(defaultThumbnailKey)
		}
		os.Remove(thumbnailPath)
	}

	var duration float64
	if info, err := util.ProbeVideo(videoPath); err == nil {
		duration = info.Duration
		if size == 0 {
			size = info.Size
		}
	}

	video := &model.ChapterVideo{
		ChapterID:    chapterID,
		Title:        title,
		URL:          videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		Size:         size,
	}
	if err := s.CourseRepo.CreateVideo(video); err != nil {
		return nil, err
	}
	return video, nil
}

// UploadVideoChunk 分块上传；全部分块到齐后合并处理，进度存Redis方便多实例共享
func (s *ContentService) UploadVideoChunk(ctx context.Context, chunkFile *multipart.FileHeader, chunkNumber, totalChunks int, identifier, filename string, chapterID uint, title string) (*UploadProgress, *model.ChapterVideo, error) {
	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp", identifier)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, nil, err
	}

	chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%d", chunkNumber))
	src, err := chunkFile.Open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	dst, err := os.Create(chunkPath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, nil, err
	}
	dst.Close()

	redisKey := uploadProgressKeyPrefix + identifier
	var progress *UploadProgress

	val, err := s.Redis.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		progress = &UploadProgress{
			Identifier:  identifier,
			Filename:    filename,
			TotalChunks: totalChunks,
			Chunks:      make(map[int]bool),
			CreatedAt:   time.Now(),
		}
	} else if err != nil {
		return nil, nil, err
	} else {
		if err := json.Unmarshal([]byte(val), &progress); err != nil {
			return nil, nil, err
		}
	}

	if !progress.Chunks[chunkNumber] {
		progress.UploadedChunks++
		progress.FileSize += chunkFile.Size
		progress.Chunks[chunkNumber] = true
	}

	isComplete := progress.UploadedChunks == progress.TotalChunks

	updatedVal, _ := json.Marshal(progress)
	if err := s.Redis.Set(ctx, redisKey, updatedVal, 24*time.Hour).Err(); err != nil {
		return nil, nil, err
	}

	var video *model.ChapterVideo
	if isComplete {
		ext := strings.ToLower(filepath.Ext(filename))
		if !validVideoExt(ext) {
			return nil, nil, fmt.Errorf("不支持的视频格式: %s", ext)
		}

		finalPath := filepath.Join(s.Cfg.Storage.LocalPath, "temp", identifier+"_final"+ext)
		finalFile, err := os.Create(finalPath)
		if err != nil {
			return nil, nil, err
		}

		for i := 1; i <= totalChunks; i++ {
			data, err := os.ReadFile(filepath.Join(tempDir, fmt.Sprintf("chunk_%d", i)))
			if err != nil {
				finalFile.Close()
				return nil, nil, err
			}
			if _, err := finalFile.Write(data); err != nil {
				finalFile.Close()
				return nil, nil, err
			}
		}
		finalFile.Close()

		if title == "" {
			title = strings.TrimSuffix(filename, ext)
		}

		video, err = s.processAndStoreVideo(ctx, finalPath, ext, chapterID, title, progress.FileSize, "")
		if err != nil {
			os.Remove(finalPath)
			return nil, nil, err
		}

		os.RemoveAll(tempDir)
		os.Remove(finalPath)
		s.Redis.Del(ctx, redisKey)
	}

	return progress, video, nil
}

// GetUploadProgress 查询分块上传进度
func (s *ContentService) GetUploadProgress(ctx context.Context, identifier string) (*UploadProgress, error) {
	val, err := s.Redis.Get(ctx, uploadProgressKeyPrefix+identifier).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("上传进度不存在: %s", identifier)
	} else if err != nil {
		return nil, err
	}

	var progress UploadProgress
	if err := json.Unmarshal([]byte(val), &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpdateVideo 更新视频标题/排序
func (s *ContentService) UpdateVideo(videoID uint, title string, order *int) (*model.ChapterVideo, error) {
	video, err := s.CourseRepo.FindVideoByID(videoID)
	if err != nil {
		return nil, util.ErrVideoNotFound
	}

	if title != "" {
		video.Title = title
	}
	if order != nil {
		video.Order = *order
	}
	if err := s.CourseRepo.UpdateVideo(video); err != nil {
		return nil, err
	}
	return video, nil
}

// DeleteVideo 删除视频记录并清理存储对象
func (s *ContentService) DeleteVideo(ctx context.Context, videoID uint) error {
	video, err := s.CourseRepo.FindVideoByID(videoID)
	if err != nil {
		return util.ErrVideoNotFound
	}

	if key := strings.TrimPrefix(video.URL, "/uploads/"); key != video.URL {
		if err := s.StorageService.Delete(ctx, key); err != nil {
			logger.Log.Warn("删除存储对象失败", zap.String("key", key), zap.Error(err))
		}
	}

	return s.CourseRepo.DeleteVideo(videoID)
}
