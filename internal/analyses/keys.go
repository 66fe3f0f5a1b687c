package analyses

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	uploadPrefix  = "upload:"
	cachePrefix   = "analysis-cache:"
	deletedPrefix = "analysis-deleted:"
)

// uploadKey returns upload:{owner}:{ms}:{nonce}. The nonce keeps uploads
// staged by one owner in the same millisecond apart.
func uploadKey(owner string, at time.Time) string {
	return fmt.Sprintf("%s%s:%d:%s", uploadPrefix, owner, at.UnixMilli(), uuid.New())
}

// ownsUpload reports whether key is an upload key staged for owner.
func ownsUpload(key, owner string) bool {
	rest, ok := strings.CutPrefix(key, uploadPrefix+owner+":")
	if !ok {
		return false
	}
	ms, nonce, ok := strings.Cut(rest, ":")
	if !ok {
		return false
	}
	if _, err := strconv.ParseInt(ms, 10, 64); err != nil {
		return false
	}
	_, err := uuid.Parse(nonce)
	return err == nil
}

func cacheKey(id uuid.UUID) string {
	return cachePrefix + id.String()
}

func tombstoneKey(id uuid.UUID) string {
	return deletedPrefix + id.String()
}
