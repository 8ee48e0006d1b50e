package dto

// Wire shapes for upload, listing, and batch endpoints.

type UploadedFileDto struct {
	FileID          string `json:"fileId"`
	OriginalName    string `json:"originalName"`
	UUID            string `json:"uuid"`
	Path            string `json:"path"`
	UploadTimestamp string `json:"uploadTimestamp"`
}

type BatchResponseDto struct {
	BatchID string            `json:"batchId"`
	Status  string            `json:"status"`
	Files   []UploadedFileDto `json:"files"`
}

type FileListItemDto struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	StoredName   string `json:"storedName"`
	ContentType  string `json:"contentType"`
	FileSize     int64  `json:"fileSize"`
	CreatedAt    string `json:"createdAt"`
	StreamURL    string `json:"streamUrl"`
}

type FileMetadataDto struct {
	FileID          string `json:"fileId"`
	OriginalName    string `json:"originalName"`
	UUID            string `json:"uuid"`
	Path            string `json:"path"`
	UploadTimestamp string `json:"uploadTimestamp"`
}

type BatchFilesResponseDto struct {
	BatchID string            `json:"batchId"`
	Status  string            `json:"status"`
	Files   []FileMetadataDto `json:"files"`
}
