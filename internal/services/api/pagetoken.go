package api

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// pageToken is the internal state of an opaque pagination token. The filter
// hash invalidates tokens when the caller changes the filter between pages.
type pageToken struct {
	Offset     int    `json:"off"`
	FilterHash string `json:"fh,omitempty"`
}

func encodePageToken(t pageToken) string {
	data, _ := json.Marshal(t)
	return base64.URLEncoding.EncodeToString(data)
}

func decodePageToken(token, filter string) (pageToken, error) {
	if token == "" {
		return pageToken{FilterHash: hashFilter(filter)}, nil
	}
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return pageToken{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "decode page token", err)
	}
	var t pageToken
	if err := json.Unmarshal(data, &t); err != nil {
		return pageToken{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "unmarshal page token", err)
	}
	if t.Offset < 0 {
		return pageToken{}, apperrors.New(apperrors.CodePageTokenInvalid, "negative page offset")
	}
	if t.FilterHash != hashFilter(filter) {
		return pageToken{}, apperrors.New(apperrors.CodePageTokenInvalid, "page token does not match the filter")
	}
	return t, nil
}

func hashFilter(filter string) string {
	if filter == "" {
		return ""
	}
	h := sha256.Sum256([]byte(filter))
	return hex.EncodeToString(h[:8])
}
