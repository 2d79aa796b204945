package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"skillarena/internal/common"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Presigner issues time-limited upload URLs for an object key.
type Presigner interface {
	PresignedPutURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

type UploadService struct {
	presigner     Presigner
	defaultFolder string
	expiry        time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewUploadService(presigner Presigner, defaultFolder string, expiry time.Duration, logger *slog.Logger) *UploadService {
	if defaultFolder == "" {
		defaultFolder = "freelancer-profiles"
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &UploadService{
		presigner:     presigner,
		defaultFolder: defaultFolder,
		expiry:        expiry,
		logger:        logger,
		now:           time.Now,
	}
}

type UploadSignatureRequest struct {
	Folder   string `json:"folder"`
	PublicID string `json:"publicId"`
}

type UploadSignature struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ObjectKey string    `json:"objectKey"`
	Folder    string    `json:"folder"`
	PublicID  string    `json:"publicId"`
	Timestamp int64     `json:"timestamp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Sign returns a presigned PUT for folder/userID/publicID. Folder and
// public id are reduced to slugs so callers cannot escape their prefix.
func (s *UploadService) Sign(ctx context.Context, userID string, req UploadSignatureRequest) (*UploadSignature, error) {
	folder := slug.Make(req.Folder)
	if folder == "" {
		folder = s.defaultFolder
	}
	publicID := slug.Make(req.PublicID)
	if publicID == "" {
		publicID = uuid.NewString()
	}
	key := path.Join(folder, userID, publicID)

	now := s.now()
	url, err := s.presigner.PresignedPutURL(ctx, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload: %v: %w", err, common.ErrUpstream)
	}

	s.logger.Debug("upload signed", "user_id", userID, "object_key", key)
	return &UploadSignature{
		URL:       url,
		Method:    "PUT",
		ObjectKey: key,
		Folder:    folder,
		PublicID:  publicID,
		Timestamp: now.Unix(),
		ExpiresAt: now.Add(s.expiry).UTC(),
	}, nil
}
