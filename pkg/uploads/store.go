package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists uploaded images and returns a public URL for each.
type Store interface {
	// Save writes the content and returns the URL clients use to fetch it.
	Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
}

// ObjectName builds a collision-free stored name from the original
// filename, keeping only its extension.
func ObjectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
