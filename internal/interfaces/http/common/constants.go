package common

const (
	// MaxRequestBody limits JSON request bodies for store and review endpoints.
	MaxRequestBody = 1 << 20
	// MaxUploadBody limits multipart photo uploads.
	MaxUploadBody = 11 << 20
)
