package staff

import (
	"io"
	"path"
	"strings"
)

// Status は職員の状態を表します。値は自由形式の文字列で、以下は代表的な値です。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Staff は職員エンティティです。
// ID は呼び出し側が指定でき、0 の場合はストレージのシーケンスが採番します。
type Staff struct {
	ID             int64
	Username       string
	PasswordHash   string
	Email          string
	Status         Status
	DomainRole     string
	FullName       string
	OfficeLocation string
	PhotoKey       string
	Bio            string
	Phone          string
}

// Photo はアップロードされた職員写真です。
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// StoredPhoto は保存済みの職員写真です。ContentType は保存キーの拡張子から決まります。
type StoredPhoto struct {
	Key         string
	ContentType string
	Content     io.ReadCloser
}

// 受け付ける画像形式と保存時の拡張子です。
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// PhotoExtension は受け付け可能な画像形式の拡張子を返します。
func PhotoExtension(contentType string) (string, bool) {
	ext, ok := photoExtensions[contentType]
	return ext, ok
}

// PhotoContentType は保存キーの拡張子から Content-Type を返します。
// 不明な拡張子は application/octet-stream です。
func PhotoContentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	for contentType, e := range photoExtensions {
		if e == ext {
			return contentType
		}
	}
	return "application/octet-stream"
}
