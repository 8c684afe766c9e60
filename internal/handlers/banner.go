package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
	"backend/internal/store"
)

type BannerCreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Image    string `json:"image" binding:"required"`
	Link     string `json:"link"`
	IsActive bool   `json:"isActive"`
}

type BannerUpdateRequest struct {
	Title    *string `json:"title"`
	Image    *string `json:"image"`
	Link     *string `json:"link"`
	IsActive *bool   `json:"isActive"`
}

// GET /banners (public: the active banner only)
func GetActiveBanners(banners store.BannerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /banners"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := banners.List(ctx, true)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"banners": list})
	}
}

// GET /admin/banners
func GetAllBanners(banners store.BannerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/banners"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := banners.List(ctx, false)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"banners": list})
	}
}

// POST /admin/banners
func CreateBanner(banners store.BannerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/banners"
		defer handlePanic(c, route)

		var req BannerCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		banner, err := banners.Create(ctx, models.Banner{
			Title:    req.Title,
			Image:    req.Image,
			Link:     req.Link,
			IsActive: req.IsActive,
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusCreated, gin.H{"banner": banner})
	}
}

// PUT /admin/banners/:id
func UpdateBanner(banners store.BannerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/banners/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req BannerUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var previousImage string
		if req.Image != nil {
			previous, err := banners.Get(ctx, id)
			if err == store.ErrBannerNotFound {
				respondError(c, http.StatusNotFound, route, "banner not found")
				return
			}
			if err != nil {
				respondError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			previousImage = previous.Image
		}

		banner, err := banners.Update(ctx, id, store.BannerUpdate{
			Title:    req.Title,
			Image:    req.Image,
			Link:     req.Link,
			IsActive: req.IsActive,
		})
		if err == store.ErrBannerNotFound {
			respondError(c, http.StatusNotFound, route, "banner not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// A replaced image leaves the old file orphaned.
		if req.Image != nil && previousImage != banner.Image {
			if err := safeDeleteUpload(previousImage); err != nil {
				log.Printf("[%s] stale image cleanup: %v", route, err)
			}
		}

		respondData(c, http.StatusOK, gin.H{"banner": banner})
	}
}

// PATCH /admin/banners/:id/toggle
func ToggleBanner(banners store.BannerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/banners/:id/toggle"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		banner, err := banners.Toggle(ctx, id)
		if err == store.ErrBannerNotFound {
			respondError(c, http.StatusNotFound, route, "banner not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"banner": banner})
	}
}

// DELETE /admin/banners/:id
func DeleteBanner(banners store.BannerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/banners/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		banner, err := banners.Get(ctx, id)
		if err == store.ErrBannerNotFound {
			respondError(c, http.StatusNotFound, route, "banner not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := banners.Delete(ctx, id); err != nil {
			if err == store.ErrBannerNotFound {
				respondError(c, http.StatusNotFound, route, "banner not found")
				return
			}
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := safeDeleteUpload(banner.Image); err != nil {
			log.Printf("[%s] image cleanup: %v", route, err)
		}

		respondMessage(c, http.StatusOK, "banner deleted")
	}
}
