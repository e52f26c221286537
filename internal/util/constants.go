package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 允许上传的MIME类型前缀
const (
	MimeVideo = "video/"
	MimeImage = "image/"
	MimePDF   = "application/pdf"
	MimeText  = "text/"
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
	AvatarMimeTypes        = []string{MimeImage}
	LessonMimeTypes        = []string{MimeVideo, MimeImage, MimePDF, MimeText}
)
