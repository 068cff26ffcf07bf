package storage

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore 附件落盘的外部边界：put 返回 (key, 公网 URL)，
// delete 尽力而为。
type ObjectStore interface {
	Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey 生成带随机前缀的存储 key，避免同名覆盖。
func ObjectKey(filename string) string {
	return "attachments/" + strings.ReplaceAll(uuid.NewString(), "-", "") + "_" + filename
}
