package admin

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"sync"

	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/platform/httputil"
	"patentdesk/pkg/requestcontext"
	"patentdesk/pkg/secrets"
)

const HeaderAdminToken = "X-Admin-Token"

// Verifier checks X-Admin-Token against a bcrypt hash. The digest of the last
// accepted token is remembered so repeat requests skip bcrypt.
type Verifier struct {
	hash string

	mu       sync.RWMutex
	accepted [sha256.Size]byte
	cached   bool
}

func NewVerifier(hash string) *Verifier {
	return &Verifier{hash: hash}
}

// Verify returns nil when token matches the configured hash.
func (v *Verifier) Verify(token string) error {
	digest := sha256.Sum256([]byte(token))
	v.mu.RLock()
	hit := v.cached && subtle.ConstantTimeCompare(digest[:], v.accepted[:]) == 1
	v.mu.RUnlock()
	if hit {
		return nil
	}

	if err := secrets.Verify(token, v.hash); err != nil {
		return err
	}
	v.mu.Lock()
	v.accepted, v.cached = digest, true
	v.mu.Unlock()
	return nil
}

func RequireAdminToken(v *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := v.Verify(r.Header.Get(HeaderAdminToken)); err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
					"error", err,
				)
				if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					err = dErrors.New(dErrors.CodeUnauthorized, "admin token required")
				}
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
