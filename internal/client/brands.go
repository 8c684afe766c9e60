package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

var brandPathPattern = regexp.MustCompile(`^/[a-zA-Z0-9/_-]*$`)

// BrandForm is the editable brand payload. The logo URL comes from a prior
// UploadBrandLogo call.
type BrandForm struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
	Path string `json:"path"`
}

// FieldError is a form-level validation failure tied to one input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fieldErr := range e {
		parts = append(parts, fieldErr.Error())
	}
	return strings.Join(parts, "; ")
}

// validateBrandForm runs the client-side checks. A non-nil result
// short-circuits the save before any network call. On update, logo and path
// are optional and empty values mean "leave unchanged", mirroring the
// server's partial-update contract.
func validateBrandForm(form BrandForm, create bool) FieldErrors {
	var errs FieldErrors
	if strings.TrimSpace(form.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if create && strings.TrimSpace(form.Logo) == "" {
		errs = append(errs, FieldError{Field: "logo", Message: "logo is required"})
	}
	if (create || form.Path != "") && !brandPathPattern.MatchString(form.Path) {
		errs = append(errs, FieldError{Field: "path", Message: "path must start with / and contain only letters, digits, hyphen, underscore or slash"})
	}
	return errs
}

// UploadBrandLogo uploads the logo file and returns the stored URL. Upload
// failures are reported distinctly so the caller never confuses them with a
// brand save failure.
func (c *Client) UploadBrandLogo(filename string, file io.Reader) (string, error) {
	env, err := c.doMultipart("/api/v1/admin/upload/brand", "image", filename, file)
	if err != nil {
		return "", fmt.Errorf("logo upload failed: %w", err)
	}
	if !env.Success {
		if env.Message != "" {
			return "", fmt.Errorf("logo upload failed: %s", env.Message)
		}
		return "", fmt.Errorf("logo upload failed")
	}

	var data struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.URL == "" {
		return "", fmt.Errorf("logo upload failed: missing url in response")
	}
	return data.URL, nil
}

func (c *Client) CreateBrand(form BrandForm) error {
	if errs := validateBrandForm(form, true); errs != nil {
		return errs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var created models.Brand
	err := attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		s.Brands = append(s.Brands, models.Brand{
			Name: form.Name,
			Logo: form.Logo,
			Path: form.Path,
		})
	}, func() (*envelope, error) {
		env, err := c.do(http.MethodPost, "/api/v1/admin/brands", form)
		if err != nil {
			return nil, err
		}
		if env.Success {
			var data struct {
				Brand models.Brand `json:"brand"`
			}
			if err := json.Unmarshal(env.Data, &data); err == nil {
				created = data.Brand
			}
		}
		return env, nil
	})
	if err != nil {
		return err
	}

	if !created.ID.IsZero() {
		c.state.Brands[len(c.state.Brands)-1] = created
	}
	return nil
}

func (c *Client) UpdateBrand(id primitive.ObjectID, form BrandForm) error {
	if errs := validateBrandForm(form, false); errs != nil {
		return errs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		for i := range s.Brands {
			if s.Brands[i].ID == id {
				s.Brands[i].Name = form.Name
				if form.Logo != "" {
					s.Brands[i].Logo = form.Logo
				}
				if form.Path != "" {
					s.Brands[i].Path = form.Path
				}
				return
			}
		}
	}, func() (*envelope, error) {
		payload := struct {
			Name string `json:"name,omitempty"`
			Logo string `json:"logo,omitempty"`
			Path string `json:"path,omitempty"`
		}{form.Name, form.Logo, form.Path}
		return c.do(http.MethodPut, "/api/v1/admin/brands/"+id.Hex(), payload)
	})
}

// DeleteBrand removes a brand. Deleting a brand that still has products is
// permitted; the returned warning is the server message naming how many
// products lose the association.
func (c *Client) DeleteBrand(id primitive.ObjectID) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var warning string
	err := attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		next := make([]models.Brand, 0, len(s.Brands))
		for _, brand := range s.Brands {
			if brand.ID != id {
				next = append(next, brand)
			}
		}
		s.Brands = next
	}, func() (*envelope, error) {
		env, err := c.do(http.MethodDelete, "/api/v1/admin/brands/"+id.Hex(), nil)
		if err != nil {
			return nil, err
		}
		warning = env.Message
		return env, nil
	})
	if err != nil {
		return "", err
	}
	return warning, nil
}
