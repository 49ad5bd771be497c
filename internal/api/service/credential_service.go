package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mediaflow/internal/provider"
	"mediaflow/pkg"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultOwner is used when requests are not authenticated (dev mode).
const DefaultOwner = "default"

var ErrNoCredentials = errors.New("no stored credentials")

// CredentialStore persists provider keys per owner.
type CredentialStore interface {
	Load(ctx context.Context, owner string) (provider.Keys, error)
	Save(ctx context.Context, owner string, keys provider.Keys) error
	Delete(ctx context.Context, owner string) error
}

type RedisCredentialStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisCredentialStore(client redis.Cmdable) *RedisCredentialStore {
	return &RedisCredentialStore{client: client, prefix: "mediaflow:credentials:"}
}

func (slf *RedisCredentialStore) Load(ctx context.Context, owner string) (provider.Keys, error) {
	keys, found, err := pkg.RedisLoad[provider.Keys](ctx, slf.client, slf.prefix+owner)
	if err != nil {
		return provider.Keys{}, err
	}
	if !found {
		return provider.Keys{}, ErrNoCredentials
	}
	return keys, nil
}

func (slf *RedisCredentialStore) Save(ctx context.Context, owner string, keys provider.Keys) error {
	return pkg.RedisStore(ctx, slf.client, slf.prefix+owner, keys, 0)
}

func (slf *RedisCredentialStore) Delete(ctx context.Context, owner string) error {
	return pkg.RedisDelete(ctx, slf.client, slf.prefix+owner)
}

// MemoryCredentialStore keeps keys for the lifetime of the process.
type MemoryCredentialStore struct {
	mu   sync.RWMutex
	keys map[string]provider.Keys
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{keys: make(map[string]provider.Keys)}
}

func (slf *MemoryCredentialStore) Load(_ context.Context, owner string) (provider.Keys, error) {
	slf.mu.RLock()
	defer slf.mu.RUnlock()
	keys, ok := slf.keys[owner]
	if !ok {
		return provider.Keys{}, ErrNoCredentials
	}
	return keys, nil
}

func (slf *MemoryCredentialStore) Save(_ context.Context, owner string, keys provider.Keys) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	slf.keys[owner] = keys
	return nil
}

func (slf *MemoryCredentialStore) Delete(_ context.Context, owner string) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	delete(slf.keys, owner)
	return nil
}

// CredentialService resolves the provider keys of a caller: stored keys
// first, environment keys for whatever is missing.
type CredentialService struct {
	store    CredentialStore
	fallback provider.Keys
	logger   zerolog.Logger
}

func NewCredentialService(store CredentialStore, fallback provider.Keys, logger zerolog.Logger) *CredentialService {
	return &CredentialService{store: store, fallback: fallback, logger: logger}
}

func (slf *CredentialService) Keys(ctx context.Context, owner string) (provider.Keys, error) {
	stored, err := slf.store.Load(ctx, ownerOrDefault(owner))
	if err != nil && !errors.Is(err, ErrNoCredentials) {
		slf.logger.Error().Err(err).Str("owner", owner).Msg("Error loading provider keys")
		return provider.Keys{}, fmt.Errorf("load provider keys: %w", err)
	}
	return stored.Merge(slf.fallback), nil
}

// Configure stores the non empty keys of update and returns the effective keys.
func (slf *CredentialService) Configure(ctx context.Context, owner string, update provider.Keys) (provider.Keys, error) {
	owner = ownerOrDefault(owner)

	stored, err := slf.store.Load(ctx, owner)
	if err != nil && !errors.Is(err, ErrNoCredentials) {
		return provider.Keys{}, fmt.Errorf("load provider keys: %w", err)
	}

	merged := update.Merge(stored)
	if err := slf.store.Save(ctx, owner, merged); err != nil {
		slf.logger.Error().Err(err).Str("owner", owner).Msg("Error saving provider keys")
		return provider.Keys{}, fmt.Errorf("save provider keys: %w", err)
	}

	slf.logger.Info().Str("owner", owner).Bool("openai", update.OpenAI != "").Bool("fal", update.Fal != "").Msg("provider keys updated")
	return merged.Merge(slf.fallback), nil
}

// Reset forgets the stored keys of owner. Environment keys still apply.
func (slf *CredentialService) Reset(ctx context.Context, owner string) (provider.Keys, error) {
	owner = ownerOrDefault(owner)
	if err := slf.store.Delete(ctx, owner); err != nil {
		return provider.Keys{}, fmt.Errorf("delete provider keys: %w", err)
	}
	slf.logger.Info().Str("owner", owner).Msg("provider keys cleared")
	return slf.fallback, nil
}

func ownerOrDefault(owner string) string {
	if owner == "" {
		return DefaultOwner
	}
	return owner
}
