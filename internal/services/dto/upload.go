package dto

import "io"

// FileUpload - файл из multipart-запроса. Open вызывается сервисом
// непосредственно перед загрузкой во внешнее хранилище.
type FileUpload struct {
	Type        string
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}
