package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// MimeImage is the content-type prefix accepted for banner uploads.
const MimeImage = "image/"

var AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
