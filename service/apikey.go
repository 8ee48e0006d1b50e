package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/EldoranCodes/FileStorageApi/utils"
	"gorm.io/gorm"
)

const (
	credentialCachePrefix = "apikey:"
	credentialCacheTTL    = 5 * time.Minute
)

// APIKeyService validates presented API keys against stored credential
// digests. Lookup is a single indexed store hit by digest rather than a scan
// over all credentials.
type APIKeyService struct {
	keyRepo *repository.APIKeyRepository
	cache   *infra.RedisClient
	logger  *infra.LoggerClient
}

func NewAPIKeyService(keyRepo *repository.APIKeyRepository, cache *infra.RedisClient, logger *infra.LoggerClient) *APIKeyService {
	return &APIKeyService{
		keyRepo: keyRepo,
		cache:   cache,
		logger:  logger,
	}
}

// ValidateAPIKey resolves the presented plaintext key to its credential with
// the owning consumer attached, or nil. Nil is returned alike for blank
// input, unknown keys, inactive credentials, and inactive owners; callers
// cannot distinguish these cases. Blank input returns before the store is
// touched.
func (s *APIKeyService) ValidateAPIKey(ctx context.Context, key string) *entity.APIKey {
	if strings.TrimSpace(key) == "" {
		return nil
	}

	digest := utils.HashAPIKey(key)

	if s.cache != nil {
		var cached entity.APIKey
		if err := s.cache.Get(ctx, credentialCachePrefix+digest, &cached); err == nil {
			if credentialActive(&cached) {
				return &cached
			}
		}
	}

	record, err := s.keyRepo.FindActiveByDigest(digest)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.ErrorWithContextf(ctx, err, "[APIKey] Credential lookup failed: %v", err)
		}
		return nil
	}

	// The digest already matched via the index; confirm in constant time
	// before trusting the row.
	if !utils.SecureCompare(digest, record.KeyDigest) {
		return nil
	}

	if !credentialActive(record) {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, credentialCachePrefix+digest, record, credentialCacheTTL); err != nil {
			s.logger.WarningWithContextf(ctx, "[APIKey] Credential cache write failed: %v", err)
		}
	}

	return record
}

func credentialActive(key *entity.APIKey) bool {
	if key == nil || key.Status != entity.APIKeyStatusActive {
		return false
	}
	if key.Consumer == nil || key.Consumer.Status != entity.ConsumerStatusActive {
		return false
	}
	return true
}
