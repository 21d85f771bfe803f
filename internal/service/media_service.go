package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"heirloom/internal/config"
	"heirloom/internal/middleware"
	"heirloom/internal/models"
	"heirloom/internal/observability"
	"heirloom/internal/storage"

	"github.com/chai2010/webp"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	xdraw "golang.org/x/image/draw"
)

const (
	DefaultMediaMaxFileMB = 50
	DefaultMediaMaxFiles  = 10
	ThumbnailMaxSize      = 320
	ThumbnailWebPQuality  = 70
	// ThumbnailMaxPixels bounds the decoded source image; larger images get no thumbnail.
	ThumbnailMaxPixels = 50_000_000

	sniffLen = 3072
)

var allowedMediaTypes = []string{
	"image/jpeg", "image/jpg", "image/png", "image/gif",
	"video/mp4", "video/mpeg", "video/quicktime",
	"audio/mpeg", "audio/wav", "audio/mp3", "audio/ogg",
}

var thumbnailTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

var (
	errExceedsCap        = errors.New("media exceeds size cap")
	errThumbnailTooLarge = errors.New("image dimensions too large for a thumbnail")
)

// MediaUpload is one file part of a story-creation request. Open may be
// called more than once.
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ValidatedMedia is an upload that passed the type and size checks.
type ValidatedMedia struct {
	Upload   MediaUpload
	MimeType string
	Ext      string
}

type MediaService struct {
	blobs        storage.BlobStore
	maxFileBytes int64
	maxFiles     int
	now          func() time.Time
}

func NewMediaService(blobs storage.BlobStore, cfg *config.Config) *MediaService {
	maxFileMB := DefaultMediaMaxFileMB
	maxFiles := DefaultMediaMaxFiles
	if cfg != nil {
		if cfg.MediaMaxFileMB > 0 {
			maxFileMB = cfg.MediaMaxFileMB
		}
		if cfg.MediaMaxFiles > 0 {
			maxFiles = cfg.MediaMaxFiles
		}
	}
	return &MediaService{
		blobs:        blobs,
		maxFileBytes: int64(maxFileMB) * 1024 * 1024,
		maxFiles:     maxFiles,
		now:          time.Now,
	}
}

// MaxFiles is the per-request attachment cap.
func (s *MediaService) MaxFiles() int {
	return s.maxFiles
}

// Validate checks the whole batch without writing anything. The first
// offending file rejects the batch.
func (s *MediaService) Validate(uploads []MediaUpload) ([]ValidatedMedia, error) {
	if len(uploads) > s.maxFiles {
		observability.MediaRejected.WithLabelValues("TOO_MANY_FILES").Inc()
		return nil, models.NewFieldValidationError(map[string]string{
			"media": fmt.Sprintf("at most %d files per story", s.maxFiles),
		})
	}

	validated := make([]ValidatedMedia, 0, len(uploads))
	for _, up := range uploads {
		v, err := s.validateOne(up)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) {
				observability.MediaRejected.WithLabelValues(appErr.Code).Inc()
			}
			return nil, err
		}
		validated = append(validated, v)
	}
	return validated, nil
}

func (s *MediaService) validateOne(up MediaUpload) (ValidatedMedia, error) {
	if up.Size > s.maxFileBytes {
		return ValidatedMedia{}, models.NewMediaTooLargeError(up.Filename, s.maxFileBytes)
	}

	mimeType := normalizeContentType(up.ContentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		sniffed, err := sniffContentType(up)
		if err != nil {
			return ValidatedMedia{}, models.NewStorageFailureError("read upload", err)
		}
		mimeType = sniffed
	}
	if !isAllowedMediaType(mimeType) {
		return ValidatedMedia{}, models.NewInvalidMediaTypeError(up.Filename, mimeType)
	}

	return ValidatedMedia{
		Upload:   up,
		MimeType: mimeType,
		Ext:      mediaExtension(up.Filename, mimeType),
	}, nil
}

// Store writes every validated file. If any write fails the files already
// written are removed before the error is returned.
func (s *MediaService) Store(ctx context.Context, batch []ValidatedMedia) (files []models.MediaFile, err error) {
	ctx, span := observability.StartSpan(ctx, "media.store", attribute.Int("media.count", len(batch)))
	defer func() { span.End(err) }()

	files = make([]models.MediaFile, 0, len(batch))
	for _, v := range batch {
		file, storeErr := s.storeOne(ctx, v)
		if storeErr != nil {
			s.Discard(ctx, files)
			if errors.Is(storeErr, errExceedsCap) {
				observability.MediaRejected.WithLabelValues(models.CodeMediaTooLarge).Inc()
				return nil, models.NewMediaTooLargeError(v.Upload.Filename, s.maxFileBytes)
			}
			return nil, models.NewStorageFailureError("media write", storeErr)
		}
		files = append(files, file)
	}

	for _, f := range files {
		kind := string(f.Kind())
		observability.MediaIngested.WithLabelValues(kind).Inc()
		observability.MediaIngestedBytes.WithLabelValues(kind).Add(float64(f.FileSize))
	}
	return files, nil
}

func (s *MediaService) storeOne(ctx context.Context, v ValidatedMedia) (models.MediaFile, error) {
	key := fmt.Sprintf("media-%d-%s%s", s.now().UnixMilli(), uuid.NewString(), v.Ext)

	rc, err := v.Upload.Open()
	if err != nil {
		return models.MediaFile{}, err
	}
	defer func() { _ = rc.Close() }()

	body := &cappedReader{r: rc, remaining: s.maxFileBytes}
	url, err := s.blobs.Put(ctx, key, v.MimeType, body, -1)
	if err != nil {
		if body.exceeded {
			return models.MediaFile{}, errExceedsCap
		}
		return models.MediaFile{}, err
	}

	file := models.MediaFile{
		Filename:     key,
		OriginalName: v.Upload.Filename,
		MimeType:     v.MimeType,
		FileSize:     body.read,
		FilePath:     url,
	}
	if thumbnailTypes[v.MimeType] {
		file.ThumbnailPath = s.storeThumbnail(ctx, v, key)
	}
	return file, nil
}

// storeThumbnail returns the thumbnail URL, or "" when none could be made.
func (s *MediaService) storeThumbnail(ctx context.Context, v ValidatedMedia, key string) string {
	data, err := renderThumbnail(v.Upload)
	if err == nil {
		_, err = s.blobs.Put(ctx, thumbnailKey(key), "image/webp", bytes.NewReader(data), int64(len(data)))
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "thumbnail generation failed",
			slog.String("file", v.Upload.Filename),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return s.blobs.URL(thumbnailKey(key))
}

// Discard removes stored blobs for files that will not be persisted.
func (s *MediaService) Discard(ctx context.Context, files []models.MediaFile) {
	for _, f := range files {
		keys := []string{f.Filename}
		if f.ThumbnailPath != "" {
			keys = append(keys, thumbnailKey(f.Filename))
		}
		for _, k := range keys {
			if err := s.blobs.Delete(ctx, k); err != nil {
				middleware.Logger.ErrorContext(ctx, "failed to discard media blob",
					slog.String("key", k),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

func thumbnailKey(key string) string {
	return strings.TrimSuffix(key, filepath.Ext(key)) + "-thumb.webp"
}

func renderThumbnail(up MediaUpload) ([]byte, error) {
	if err := checkThumbnailBounds(up); err != nil {
		return nil, err
	}

	rc, err := up.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	src, _, err := image.Decode(rc)
	if err != nil {
		return nil, err
	}
	thumb := resizeToFit(src, ThumbnailMaxSize, ThumbnailMaxSize)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, thumb, &webp.Options{Quality: ThumbnailWebPQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// checkThumbnailBounds reads only the image header, so a small file that
// declares huge dimensions is refused before any pixel buffer is allocated.
func checkThumbnailBounds(up MediaUpload) error {
	rc, err := up.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return err
	}
	if int64(cfg.Width)*int64(cfg.Height) > ThumbnailMaxPixels {
		return fmt.Errorf("%w: %dx%d", errThumbnailTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func sniffContentType(up MediaUpload) (string, error) {
	rc, err := up.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	detected := mimetype.Detect(head[:n])
	for _, allowed := range allowedMediaTypes {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return normalizeContentType(detected.String()), nil
}

func isAllowedMediaType(mimeType string) bool {
	for _, allowed := range allowedMediaTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

var mediaExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"video/mp4":       ".mp4",
	"video/mpeg":      ".mpeg",
	"video/quicktime": ".mov",
	"audio/mpeg":      ".mp3",
	"audio/mp3":       ".mp3",
	"audio/wav":       ".wav",
	"audio/ogg":       ".ogg",
}

// mediaExtension keeps the original extension when it is a plain short
// suffix and otherwise derives one from the MIME type.
func mediaExtension(filename, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) >= 2 && len(ext) <= 10 && isPlainExt(ext[1:]) {
		return ext
	}
	return mediaExtensions[mimeType]
}

func isPlainExt(s string) bool {
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// cappedReader fails once more than remaining bytes have been read.
type cappedReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	if int64(n) > c.remaining {
		c.exceeded = true
		return 0, errExceedsCap
	}
	c.remaining -= int64(n)
	return n, err
}
