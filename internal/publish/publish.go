package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	htmlCacheControl  = "public, max-age=300"
	assetCacheControl = "public, max-age=3600"
)

// Object is one file of the exported site.
type Object struct {
	Key          string
	Size         int64
	ContentType  string
	CacheControl string
}

// Bucket receives the exported files.
type Bucket interface {
	Put(ctx context.Context, obj Object, r io.Reader) error
}

type Publisher struct {
	bucket Bucket
	prefix string
	logger *zap.Logger
}

func New(bucket Bucket, prefix string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Publish uploads every regular file under outDir and returns the object
// keys in upload order.
func (p *Publisher) Publish(ctx context.Context, outDir string) ([]string, error) {
	if strings.TrimSpace(outDir) == "" {
		return nil, errors.New("publish: output directory is required")
	}

	var files []string
	err := filepath.WalkDir(outDir, func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", outDir, err)
	}
	sort.Strings(files)

	keys := make([]string, 0, len(files))
	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			return keys, err
		}

		rel, err := filepath.Rel(outDir, filePath)
		if err != nil {
			return keys, fmt.Errorf("relative path of %s: %w", filePath, err)
		}

		key := p.objectKey(filepath.ToSlash(rel))
		if err := p.upload(ctx, filePath, key); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}

	p.logger.Info("site published", zap.Int("objects", len(keys)), zap.String("prefix", p.prefix))
	return keys, nil
}

func (p *Publisher) upload(ctx context.Context, filePath string, key string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filePath, err)
	}

	obj := Object{
		Key:          key,
		Size:         info.Size(),
		ContentType:  ContentType(key),
		CacheControl: cacheControl(key),
	}
	if err := p.bucket.Put(ctx, obj, file); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	p.logger.Debug("object uploaded", zap.String("key", key), zap.Int64("size", obj.Size))
	return nil
}

func (p *Publisher) objectKey(rel string) string {
	if p.prefix == "" {
		return rel
	}
	return p.prefix + "/" + rel
}

// ContentType picks the object content type from the file extension.
func ContentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	switch ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

func cacheControl(key string) string {
	if strings.HasSuffix(key, ".html") {
		return htmlCacheControl
	}
	return assetCacheControl
}
