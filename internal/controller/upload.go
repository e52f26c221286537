package controller

import (
	"fmt"
	"io"
	"learnul_backend/internal/util"
	"mime/multipart"
	"os"
	"path/filepath"
)

// sniffUpload 检查上传文件的大小和实际内容类型
func sniffUpload(fh *multipart.FileHeader, maxBytes int64, allowed []string) (string, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", util.Invalid("upload", "file exceeds %d MB", maxBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return "", util.Invalid("upload", "unreadable file: %v", err)
	}
	defer f.Close()

	mimeType, err := util.ValidateMimeType(f, allowed)
	if err != nil {
		return "", util.Invalid("upload", "%v", err)
	}
	return mimeType, nil
}

// spoolToTemp 将上传文件写入本地临时文件，供 ffprobe 等需要路径的工具读取，由调用方删除
func spoolToTemp(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "learnul-upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("spool upload: %w", err)
	}
	return dst.Name(), nil
}
