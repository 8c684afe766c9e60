package handlers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/models"
	"backend/internal/store"
)

func writeUploadFixture(t *testing.T, relPath string) string {
	t.Helper()
	full := filepath.Join(config.AppEnv.PublicRootDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("fixture dir: %v", err)
	}
	if err := os.WriteFile(full, []byte("img"), 0o644); err != nil {
		t.Fatalf("fixture file: %v", err)
	}
	return full
}

func TestDeleteBannerRemovesStoredImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppEnv.PublicRootDir = t.TempDir()

	banners := store.NewMemoryBannerStore()
	created, err := banners.Create(context.Background(), models.Banner{
		Title: "Sale",
		Image: "/uploads/banners/sale.png",
	})
	if err != nil {
		t.Fatalf("create banner: %v", err)
	}
	full := writeUploadFixture(t, "uploads/banners/sale.png")

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("DELETE", "/admin/banners/"+created.ID.Hex(), nil)
	c.Params = gin.Params{{Key: "id", Value: created.ID.Hex()}}

	DeleteBanner(banners)(c)

	if recorder.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("expected image file removed, stat err=%v", err)
	}
	if _, err := banners.Get(context.Background(), created.ID); err != store.ErrBannerNotFound {
		t.Fatalf("expected banner gone, got %v", err)
	}
}

func TestUpdateBannerCleansReplacedImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppEnv.PublicRootDir = t.TempDir()

	banners := store.NewMemoryBannerStore()
	created, err := banners.Create(context.Background(), models.Banner{
		Title: "Sale",
		Image: "/uploads/banners/old.png",
	})
	if err != nil {
		t.Fatalf("create banner: %v", err)
	}
	oldFile := writeUploadFixture(t, "uploads/banners/old.png")
	newFile := writeUploadFixture(t, "uploads/banners/new.png")

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	body := bytes.NewBufferString(`{"image":"/uploads/banners/new.png"}`)
	c.Request = httptest.NewRequest("PUT", "/admin/banners/"+created.ID.Hex(), body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: created.ID.Hex()}}

	UpdateBanner(banners)(c)

	if recorder.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Fatalf("expected replaced image removed, stat err=%v", err)
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Fatalf("current image must stay on disk: %v", err)
	}

	banner, err := banners.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get banner: %v", err)
	}
	if banner.Image != "/uploads/banners/new.png" {
		t.Fatalf("expected new image persisted, got %q", banner.Image)
	}
}
