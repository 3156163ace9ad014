package api

import (
	"github.com/segmentio/ksuid"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// BlobResponse describes a stored document
type BlobResponse struct {
	ID   string `json:"id"`
	Size int    `json:"size,omitempty"`
}

// DecodeResponse holds one decoded offset
type DecodeResponse struct {
	Type   string      `json:"type"`
	Offset int         `json:"offset"`
	End    int         `json:"end"`
	Value  interface{} `json:"value"`
}

// FilterResponse holds the outcome of a filter
type FilterResponse struct {
	Type    string `json:"type"`
	Field   string `json:"field"`
	Preview string `json:"preview"`
	Invert  bool   `json:"invert"`
	Match   int    `json:"match"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Addr         string
	APIKey       string // Empty disables authentication
	MaxBodyBytes int64
}

// BlobStore is the subset of storage.BlobStore the server uses
type BlobStore interface {
	Put(data []byte) (ksuid.KSUID, error)
	Get(id ksuid.KSUID) ([]byte, error)
	Delete(id ksuid.KSUID) error
	List() ([]ksuid.KSUID, error)
}
