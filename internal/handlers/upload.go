package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/config"
)

const maxImageSize = 5 << 20

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// UploadBrandLogo handles POST /admin/upload/brand.
func UploadBrandLogo() gin.HandlerFunc {
	return uploadImage("POST /admin/upload/brand", "brands")
}

// UploadProductImage handles POST /admin/upload/product.
func UploadProductImage() gin.HandlerFunc {
	return uploadImage("POST /admin/upload/product", "products")
}

func uploadImage(route, subdir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, route)

		file, err := c.FormFile("image")
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "image file is required")
			return
		}

		url, err := saveImage(file, subdir)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		respondData(c, http.StatusCreated, gin.H{"url": url})
	}
}

// validateImageFile checks extension and size without touching the disk.
func validateImageFile(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}
	return extension, nil
}

func saveImage(file *multipart.FileHeader, subdir string) (string, error) {
	extension, err := validateImageFile(file)
	if err != nil {
		return "", err
	}

	filename := primitive.NewObjectID().Hex() + extension

	dir := filepath.Join(config.AppEnv.PublicRootDir, "uploads", subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	// path stored in the DB and served under /public
	return "/" + filepath.ToSlash(filepath.Join("uploads", subdir, filename)), nil
}

// safeDeleteUpload removes a previously saved upload. It only ever deletes
// inside <public root>/uploads and treats a missing file as already deleted.
func safeDeleteUpload(relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase := filepath.Clean(config.AppEnv.PublicRootDir)
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(cleanRel))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside public root: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
