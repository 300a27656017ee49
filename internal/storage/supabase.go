package storage

import (
	"bytes"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// Storage abstracts object upload for transcripts.
type Storage interface {
	Upload(objectKey string, contentType string, body []byte) error
}

// SupabaseConfig for the transcript bucket.
type SupabaseConfig struct {
	URL            string
	ServiceRoleKey string
	Bucket         string
}

// SupabaseStorage implements Storage over Supabase Storage.
type SupabaseStorage struct {
	client *supabase.Client
	bucket string
}

// NewSupabase constructs the Supabase-backed storage.
func NewSupabase(cfg SupabaseConfig) (*SupabaseStorage, error) {
	client, err := supabase.NewClient(cfg.URL, cfg.ServiceRoleKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseStorage{client: client, bucket: cfg.Bucket}, nil
}

func (s *SupabaseStorage) Upload(objectKey, contentType string, body []byte) error {
	_, err := s.client.Storage.UploadFile(s.bucket, objectKey, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("upload %s to supabase: %w", objectKey, err)
	}
	return nil
}
