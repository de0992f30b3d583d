package service

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"linkbox/internal/config"
	"linkbox/internal/domain"
	"linkbox/internal/port"
	"linkbox/internal/shortid"
)

const (
	maxFilenameLength    = 512
	maxContentTypeLength = 255
	maxStorageKeyBytes   = 1024
	storageKeyPrefix     = "uploads/"
)

// RequestUploadInput is the DTO for upload grant requests.
type RequestUploadInput struct {
	Filename    string `json:"filename" binding:"required,max=512"`
	ContentType string `json:"content_type" binding:"required,max=255"`
	SizeBytes   *int64 `json:"size_bytes" binding:"omitempty,min=0"`
}

// UploadResult is everything a client needs to perform and share an upload.
type UploadResult struct {
	Grant    *domain.UploadGrant
	FileID   string
	Download *domain.DownloadReference
	Record   *domain.FileObject
}

// TransferService defines the presigned transfer contract.
type TransferService interface {
	RequestUpload(ctx context.Context, input RequestUploadInput) (*UploadResult, error)
	GetMetadata(ctx context.Context, id string) (*domain.FileObject, error)
	GetDownloadReference(ctx context.Context, id string) (*domain.DownloadReference, error)
}

type transferService struct {
	repo     port.FileObjectRepository
	issuer   port.CredentialIssuer
	cache    port.FileObjectCache
	storage  config.StorageConfig
	idLength int
	newID    shortid.Generator
	now      func() time.Time
	log      zerolog.Logger
}

// TransferOption customizes a TransferService.
type TransferOption func(*transferService)

// WithIDGenerator replaces the crypto-random id source.
func WithIDGenerator(g shortid.Generator) TransferOption {
	return func(s *transferService) { s.newID = g }
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) TransferOption {
	return func(s *transferService) { s.now = now }
}

// NewTransferService creates a new TransferService implementation. cache may
// be nil.
func NewTransferService(
	repo port.FileObjectRepository,
	issuer port.CredentialIssuer,
	cache port.FileObjectCache,
	cfg *config.Config,
	log zerolog.Logger,
	opts ...TransferOption,
) TransferService {
	s := &transferService{
		repo:     repo,
		issuer:   issuer,
		cache:    cache,
		storage:  cfg.Storage,
		idLength: cfg.ID.Length,
		newID:    shortid.Generate,
		now:      time.Now,
		log:      log.With().Str("component", "transfer_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *transferService) RequestUpload(ctx context.Context, input RequestUploadInput) (*UploadResult, error) {
	if err := validateUploadInput(input); err != nil {
		return nil, err
	}

	id, err := s.newID(s.idLength)
	if err != nil {
		return nil, fmt.Errorf("generating file id: %w", err)
	}

	key := BuildStorageKey(id, input.Filename)
	if len(key) > maxStorageKeyBytes {
		return nil, fmt.Errorf("%w: filename too long for a storage key", domain.ErrInvalidArgument)
	}

	grant, err := s.issuer.IssueUploadGrant(ctx, port.UploadGrantInput{
		StorageKey:   key,
		ContentType:  input.ContentType,
		MaxSizeBytes: s.storage.MaxUploadBytes,
		TTL:          s.storage.UploadTTL,
	})
	if err != nil {
		s.logger(ctx).Error().Err(err).Str("file_id", id).Msg("upload grant refused")
		return nil, fmt.Errorf("issuing upload grant: %w", err)
	}

	contentType := input.ContentType
	record := &domain.FileObject{
		ID:               id,
		OriginalFilename: input.Filename,
		StorageKey:       key,
		ContentType:      &contentType,
		SizeBytes:        input.SizeBytes,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// The grant stays usable until it expires; nothing is compensated.
		s.logger(ctx).Error().Err(err).
			Str("file_id", id).
			Str("storage_key", key).
			Time("grant_expires_at", grant.ExpiresAt).
			Msg("orphaned upload grant: metadata not persisted")
		return nil, fmt.Errorf("persisting file metadata: %w", err)
	}

	s.logger(ctx).Info().Str("file_id", id).Str("storage_key", key).Msg("upload grant issued")

	return &UploadResult{
		Grant:    grant,
		FileID:   id,
		Download: s.postUploadReference(ctx, record),
		Record:   record,
	}, nil
}

func (s *transferService) GetMetadata(ctx context.Context, id string) (*domain.FileObject, error) {
	return s.lookup(ctx, id)
}

func (s *transferService) GetDownloadReference(ctx context.Context, id string) (*domain.DownloadReference, error) {
	record, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.storage.UsePublicReferences {
		if ref := s.publicReference(record.StorageKey); ref != nil {
			return ref, nil
		}
	}

	ref, err := s.issuer.IssueDownloadGrant(ctx, record.StorageKey, s.storage.DownloadTTL)
	if err != nil {
		if fallback := s.publicReference(record.StorageKey); fallback != nil {
			s.logger(ctx).Warn().Err(err).Str("file_id", id).Msg("download grant refused, using public reference")
			return fallback, nil
		}
		return nil, fmt.Errorf("issuing download grant: %w", err)
	}
	return ref, nil
}

// postUploadReference never fails: a refused grant degrades to the public
// URL and then to this service's own download endpoint.
func (s *transferService) postUploadReference(ctx context.Context, record *domain.FileObject) *domain.DownloadReference {
	if s.storage.UsePublicReferences {
		if ref := s.publicReference(record.StorageKey); ref != nil {
			return ref
		}
	}

	ref, err := s.issuer.IssueDownloadGrant(ctx, record.StorageKey, s.storage.PostUploadDownloadTTL)
	if err == nil {
		return ref
	}

	s.logger(ctx).Warn().Err(err).Str("file_id", record.ID).Msg("post-upload download grant refused, using fallback")
	if fallback := s.publicReference(record.StorageKey); fallback != nil {
		return fallback
	}
	return &domain.DownloadReference{
		URL:        DownloadPath(record.ID),
		StorageKey: record.StorageKey,
		Kind:       domain.DownloadRedirect,
	}
}

// logger prefers the request-scoped logger carried by ctx so service lines
// share the request id.
func (s *transferService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &s.log
	}
	scoped := l.With().Str("component", "transfer_service").Logger()
	return &scoped
}

func (s *transferService) publicReference(key string) *domain.DownloadReference {
	u := s.storage.PublicURL(key)
	if u == "" {
		return nil
	}
	return &domain.DownloadReference{URL: u, StorageKey: key, Kind: domain.DownloadPublic}
}

// lookup reads through the cache. Cache failures are logged and the store
// answers instead.
func (s *transferService) lookup(ctx context.Context, id string) (*domain.FileObject, error) {
	// Ids outside the alphabet can never have been issued.
	if !shortid.Valid(id) {
		return nil, domain.ErrNotFound
	}

	if s.cache != nil {
		obj, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger(ctx).Warn().Err(err).Str("file_id", id).Msg("metadata cache read failed")
		} else if ok {
			return obj, nil
		}
	}

	obj, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, obj); err != nil {
			s.logger(ctx).Warn().Err(err).Str("file_id", id).Msg("metadata cache write failed")
		}
	}
	return obj, nil
}

// BuildStorageKey derives the object key for a new record. The embedded id
// keeps keys unique even when filenames repeat.
func BuildStorageKey(id, filename string) string {
	return storageKeyPrefix + id + "-" + sanitizeFilename(filename)
}

// DownloadPath is the API path that redirects to a fresh download grant.
func DownloadPath(id string) string {
	return "/api/files/" + id + "/download"
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
}

func validateUploadInput(input RequestUploadInput) error {
	filename := strings.TrimSpace(input.Filename)
	contentType := strings.TrimSpace(input.ContentType)

	switch {
	case filename == "":
		return fmt.Errorf("%w: filename is required", domain.ErrInvalidArgument)
	case !utf8.ValidString(input.Filename):
		return fmt.Errorf("%w: filename must be valid UTF-8", domain.ErrInvalidArgument)
	case utf8.RuneCountInString(input.Filename) > maxFilenameLength:
		return fmt.Errorf("%w: filename exceeds %d characters", domain.ErrInvalidArgument, maxFilenameLength)
	case strings.IndexFunc(input.Filename, unicode.IsControl) >= 0:
		return fmt.Errorf("%w: filename must not contain control characters", domain.ErrInvalidArgument)
	case contentType == "":
		return fmt.Errorf("%w: content_type is required", domain.ErrInvalidArgument)
	case utf8.RuneCountInString(input.ContentType) > maxContentTypeLength:
		return fmt.Errorf("%w: content_type exceeds %d characters", domain.ErrInvalidArgument, maxContentTypeLength)
	case input.SizeBytes != nil && *input.SizeBytes < 0:
		return fmt.Errorf("%w: size_bytes must not be negative", domain.ErrInvalidArgument)
	}

	if _, _, err := mime.ParseMediaType(input.ContentType); err != nil {
		return fmt.Errorf("%w: content_type: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}
