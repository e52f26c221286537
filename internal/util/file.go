package util

import (
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ValidateMimeType 根据文件头检测MIME类型，allowedTypes 可以是前缀（如 "image/"）或完整类型
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	mt, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", err
	}

	mimeType := mt.String()
	for _, allowed := range allowedTypes {
		for m := mt; m != nil; m = m.Parent() {
			if strings.HasPrefix(m.String(), allowed) || m.Is(allowed) {
				return mimeType, nil
			}
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}
