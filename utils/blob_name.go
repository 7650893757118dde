package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBlobName builds a storage name for an uploaded file: unix
// millisecond timestamp plus a random suffix, keeping the original
// extension. The name carries no trace of the slot the file belongs to.
func GenerateBlobName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
