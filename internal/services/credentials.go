package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/cryptox"
	"github.com/Yijia-Z/dalle2-app/internal/dbx"
	"github.com/Yijia-Z/dalle2-app/internal/repositories/metadata"
)

const (
	keySalt        = "apikey.salt"
	keyNonce       = "apikey.nonce"
	keySealed      = "apikey.sealed"
	keyFingerprint = "apikey.fingerprint"
)

var credentialKeys = []string{keySalt, keyNonce, keySealed, keyFingerprint}

// CredentialService keeps the OpenAI API key in the metadata store, sealed
// under a passphrase. The plaintext key is never written.
type CredentialService struct {
	db    *sql.DB
	repos metadata.Factory
}

func NewCredentialService(db *sql.DB, repos metadata.Factory) *CredentialService {
	return &CredentialService{db: db, repos: repos}
}

// Save seals apiKey under passphrase, replacing any stored key.
func (c *CredentialService) Save(ctx context.Context, apiKey string, passphrase []byte) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: api key is empty", common.ErrorValidation)
	}
	if len(passphrase) == 0 {
		return fmt.Errorf("%w: passphrase is empty", common.ErrorValidation)
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	sealed, nonce, err := cryptox.Seal([]byte(apiKey), key)
	if err != nil {
		return fmt.Errorf("seal api key: %w", err)
	}
	fp := hex.EncodeToString(cryptox.Fingerprint([]byte(apiKey)))

	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := c.repos(tx)
		for k, v := range map[string][]byte{
			keySalt:        salt,
			keyNonce:       nonce,
			keySealed:      sealed,
			keyFingerprint: []byte(fp),
		} {
			if err := repo.Set(ctx, k, v); err != nil {
				return fmt.Errorf("store %s: %w", k, err)
			}
		}
		return nil
	})
}

// Load unseals the stored key. It returns common.ErrorNotFound when no key
// is stored and common.ErrWrongPassphrase when passphrase does not open it.
func (c *CredentialService) Load(ctx context.Context, passphrase []byte) (string, error) {
	repo := c.repos(c.db)

	vals := make(map[string][]byte, 3)
	for _, k := range []string{keySalt, keyNonce, keySealed} {
		v, err := repo.Get(ctx, k)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", k, err)
		}
		if v == nil {
			return "", common.ErrorNotFound
		}
		vals[k] = v
	}

	key := cryptox.DeriveKey(passphrase, vals[keySalt])
	defer common.WipeByteArray(key)

	plain, err := cryptox.Open(vals[keySealed], vals[keyNonce], key)
	if err != nil {
		return "", common.ErrWrongPassphrase
	}
	return string(plain), nil
}

func (c *CredentialService) Exists(ctx context.Context) (bool, error) {
	v, err := c.repos(c.db).Get(ctx, keySealed)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

// Fingerprint returns the stored key's hex fingerprint, or "" when none is
// stored.
func (c *CredentialService) Fingerprint(ctx context.Context) (string, error) {
	v, err := c.repos(c.db).Get(ctx, keyFingerprint)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Clear removes the stored key. The history slot is left alone.
func (c *CredentialService) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := c.repos(tx)
		for _, k := range credentialKeys {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}
