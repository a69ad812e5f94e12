package dto

// Статус ответа на импорт
const StatusOK = "OK"

// UploadResponse - ответ на bulk-импорт мест
type UploadResponse struct {
	Status string `json:"status"`
}
