package handler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// saveUploadedFile spools a multipart file part to a temp path so the
// media store can read it. Returns "" when the part is absent; the
// caller decides whether that is an error. cleanup removes the temp
// file and is safe to call unconditionally.
func saveUploadedFile(c *gin.Context, field string) (path string, cleanup func(), err error) {
	cleanup = func() {}

	file, err := c.FormFile(field)
	if err != nil {
		return "", cleanup, nil
	}

	path = filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", cleanup, fmt.Errorf("failed to save uploaded %s: %w", field, err)
	}

	return path, func() { _ = os.Remove(path) }, nil
}
