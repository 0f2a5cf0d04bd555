package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

// storeFailure translates the store sentinels every service shares into the
// caller-facing taxonomy, attaching the operation name as context. Special
// cases (capacity, invalid state) are handled at the call sites that know
// what they mean.
func storeFailure(err error, op string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, op+": resource not found")
	case errors.Is(err, store.ErrUnavailable):
		return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, op+": storage unreachable")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to "+op)
	}
}

// requireRole rejects callers outside the allowed roles.
func requireRole(actor models.Actor, roles ...models.UserRole) error {
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("operation not permitted for role %q", actor.Role))
}

// randomToken returns a URL-safe random string of roughly size characters,
// used for temporary passwords and LEO id suffixes.
func randomToken(size int) (string, error) {
	if size <= 0 {
		size = 9
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	if len(token) > size {
		token = token[:size]
	}
	return token, nil
}

// newLeoID mints the festival-wide member id stamped on student profiles.
func newLeoID() (string, error) {
	token, err := randomToken(6)
	if err != nil {
		return "", err
	}
	return "LEO-" + strings.ToUpper(token), nil
}
