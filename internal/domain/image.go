package domain

import "io"

// Image - изображение товара в объектном хранилище.
type Image struct {
	ObjectKey string
	Bucket    string
	Data      []byte
	Size      int64
	MimeType  string
}

func NewImage(bucket, objectKey string, data []byte, mimeType string) *Image {
	return &Image{
		ObjectKey: objectKey,
		Bucket:    bucket,
		Data:      data,
		Size:      int64(len(data)),
		MimeType:  mimeType,
	}
}

// ImageObject - поток содержимого изображения при чтении из хранилища.
// Вызывающий обязан закрыть Body.
type ImageObject struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}
