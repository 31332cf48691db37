// Package edge implements the proxy that fronts the backend: it keeps the
// browser's tokens in HttpOnly cookies and silently refreshes them before
// forwarding requests upstream.
package edge

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// refreshBuffer is how close to expiry an access token may get before the
// proxy refreshes it ahead of forwarding the request.
const refreshBuffer = 5 * time.Minute

type tokenPayload struct {
	Exp float64 `json:"exp"`
}

// IsTokenExpiringSoon reports whether the JWT expires within the buffer.
// The payload is decoded without signature verification; the proxy only
// schedules refreshes with it, the backend remains the security boundary.
// Malformed tokens and tokens without an exp claim count as expiring so the
// refresh path gets a chance to replace them.
func IsTokenExpiringSoon(token string, buffer time.Duration) bool {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return true
	}

	raw, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return true
	}

	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return true
	}
	if payload.Exp == 0 {
		return true
	}

	expiresAt := time.Unix(int64(payload.Exp), 0)

	return !expiresAt.After(time.Now().Add(buffer))
}
