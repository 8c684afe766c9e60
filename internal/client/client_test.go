package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func seededClient(baseURL string) *Client {
	c := New(baseURL, "test-token")
	c.state = ConfigState{
		Units: models.UnitsConfig{
			Weight:        []string{"kg", "g"},
			Length:        []string{"cm", "m"},
			ClothingSize:  []string{"S", "M", "L"},
			Volume:        []string{"l"},
			Temperature:   []string{"C"},
			DefaultWeight: "kg", DefaultLength: "cm",
			DefaultClothingSize: "M", DefaultVolume: "l",
			DefaultTemperature: "C",
		},
		DefaultCurrency: "USD",
		Rates: []models.CurrencyRate{
			{ID: primitive.NewObjectID(), Country: "United States", CurrencyCode: "USD", Symbol: "$", RateToNPR: 133.2, IsActive: true},
			{ID: primitive.NewObjectID(), Country: "India", CurrencyCode: "INR", Symbol: "₹", RateToNPR: 1.6, IsActive: false},
		},
		Brands: []models.Brand{
			{ID: primitive.NewObjectID(), Name: "Everest", Logo: "/uploads/brands/e.png", Path: "/brands/everest"},
		},
	}
	return c
}

func envelopeServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestAddUnitKeepsOptimisticStateOnSuccess(t *testing.T) {
	server := envelopeServer(t, http.StatusOK, `{"success":true,"message":"units updated"}`)
	defer server.Close()

	c := seededClient(server.URL)
	require.NoError(t, c.AddUnit("weight", "lb"))
	assert.Equal(t, []string{"kg", "g", "lb"}, c.State().Units.Weight)
}

func TestAddUnitRollsBackOnNetworkFailure(t *testing.T) {
	server := envelopeServer(t, http.StatusOK, `{"success":true}`)
	server.Close() // connection refused from here on

	c := seededClient(server.URL)
	before := c.State()

	err := c.AddUnit("weight", "lb")
	require.Error(t, err)
	assert.Equal(t, before, c.State())
}

func TestAddUnitRollsBackOnServerRejection(t *testing.T) {
	server := envelopeServer(t, http.StatusBadRequest, `{"success":false,"message":"defaultWeight must be one of the weight units"}`)
	defer server.Close()

	c := seededClient(server.URL)
	before := c.State()

	err := c.AddUnit("weight", "lb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaultWeight")
	assert.Equal(t, before, c.State())
}

func TestRemoveDefaultUnitIsRefusedLocally(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := seededClient(server.URL)
	err := c.RemoveUnit("weight", "kg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default")
	assert.Zero(t, hits.Load(), "refusal must not reach the network")
	assert.Equal(t, []string{"kg", "g"}, c.State().Units.Weight)
}

func TestSetDefaultUnitRequiresMembership(t *testing.T) {
	c := seededClient("http://unused.invalid")
	err := c.SetDefaultUnit("weight", "stone")
	require.Error(t, err)
}

func TestDeleteDefaultCurrencyIsRefused(t *testing.T) {
	c := seededClient("http://unused.invalid")
	err := c.DeleteCurrencyRate(c.State().Rates[0].ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default currency")
	assert.Len(t, c.State().Rates, 2)
}

func TestRenameDefaultCurrencyIsRefused(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := seededClient(server.URL)
	renamed := c.State().Rates[0]
	renamed.CurrencyCode = "EUR"

	err := c.UpdateCurrencyRate(renamed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default currency")
	assert.Zero(t, hits.Load(), "refusal must not reach the network")
	assert.Equal(t, "USD", c.State().Rates[0].CurrencyCode)
}

func TestUpdateDefaultCurrencyRateAllowsSameCode(t *testing.T) {
	server := envelopeServer(t, http.StatusOK, `{"success":true}`)
	defer server.Close()

	c := seededClient(server.URL)
	updated := c.State().Rates[0]
	updated.RateToNPR = 134.1

	require.NoError(t, c.UpdateCurrencyRate(updated))
	assert.Equal(t, 134.1, c.State().Rates[0].RateToNPR)
}

func TestDeleteCurrencyRateRollsBackOnFailure(t *testing.T) {
	server := envelopeServer(t, http.StatusInternalServerError, `{"success":false,"message":"db error"}`)
	defer server.Close()

	c := seededClient(server.URL)
	before := c.State()

	err := c.DeleteCurrencyRate(before.Rates[1].ID)
	require.Error(t, err)
	assert.Equal(t, before, c.State())
}

func TestToggleCurrencyRateLeavesOthersAlone(t *testing.T) {
	server := envelopeServer(t, http.StatusOK, `{"success":true}`)
	defer server.Close()

	c := seededClient(server.URL)
	inr := c.State().Rates[1]
	require.NoError(t, c.ToggleCurrencyRate(inr.ID))

	state := c.State()
	assert.True(t, state.Rates[1].IsActive)
	assert.True(t, state.Rates[0].IsActive, "toggling one rate must not deactivate others")
}

func TestSetDefaultCurrencyAllowsInactiveRate(t *testing.T) {
	server := envelopeServer(t, http.StatusOK, `{"success":true}`)
	defer server.Close()

	c := seededClient(server.URL)
	require.NoError(t, c.SetDefaultCurrency("INR"))
	assert.Equal(t, "INR", c.State().DefaultCurrency)
}

func TestSetDefaultCurrencyRejectsUnknownCode(t *testing.T) {
	c := seededClient("http://unused.invalid")
	require.Error(t, c.SetDefaultCurrency("EUR"))
}

func TestCreateBrandValidationShortCircuits(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := seededClient(server.URL)
	err := c.CreateBrand(BrandForm{Name: "", Logo: "", Path: "bad path"})
	require.Error(t, err)

	var errs FieldErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		fields = append(fields, fieldErr.Field)
	}
	assert.ElementsMatch(t, []string{"name", "logo", "path"}, fields)
	assert.Zero(t, hits.Load())
	assert.Len(t, c.State().Brands, 1)
}

func TestCreateBrandAdoptsServerAssignedID(t *testing.T) {
	id := primitive.NewObjectID()
	body := `{"success":true,"data":{"brand":{"id":"` + id.Hex() + `","name":"Sherpa","logo":"/uploads/brands/s.png","path":"/brands/sherpa"}}}`
	server := envelopeServer(t, http.StatusCreated, body)
	defer server.Close()

	c := seededClient(server.URL)
	require.NoError(t, c.CreateBrand(BrandForm{Name: "Sherpa", Logo: "/uploads/brands/s.png", Path: "/brands/sherpa"}))

	brands := c.State().Brands
	require.Len(t, brands, 2)
	assert.Equal(t, id, brands[1].ID)
}

func TestUpdateBrandAllowsOmittedPath(t *testing.T) {
	var body atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body.Store(string(raw))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := seededClient(server.URL)
	id := c.State().Brands[0].ID

	require.NoError(t, c.UpdateBrand(id, BrandForm{Name: "Everest Ltd"}))

	state := c.State()
	assert.Equal(t, "Everest Ltd", state.Brands[0].Name)
	assert.Equal(t, "/brands/everest", state.Brands[0].Path, "omitted path keeps its value")
	assert.NotContains(t, body.Load().(string), `"path"`, "omitted path must not be sent")
}

func TestDeleteBrandSurfacesWarning(t *testing.T) {
	server := envelopeServer(t, http.StatusOK, `{"success":true,"message":"brand deleted, association removed from 4 products"}`)
	defer server.Close()

	c := seededClient(server.URL)
	warning, err := c.DeleteBrand(c.State().Brands[0].ID)
	require.NoError(t, err)
	assert.Contains(t, warning, "4 products")
	assert.Empty(t, c.State().Brands)
}

func TestUploadBrandLogoDistinguishesUploadFailure(t *testing.T) {
	server := envelopeServer(t, http.StatusBadRequest, `{"success":false,"message":"unsupported image type: .gif"}`)
	defer server.Close()

	c := seededClient(server.URL)
	_, err := c.UploadBrandLogo("logo.gif", strings.NewReader("gif-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logo upload failed")
	assert.Contains(t, err.Error(), ".gif")
}

func TestUploadBrandLogoReturnsURL(t *testing.T) {
	server := envelopeServer(t, http.StatusCreated, `{"success":true,"data":{"url":"/uploads/brands/abc.png"}}`)
	defer server.Close()

	c := seededClient(server.URL)
	url, err := c.UploadBrandLogo("logo.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/brands/abc.png", url)
}

func TestBrandPathPattern(t *testing.T) {
	valid := []string{"/", "/brands", "/brands/everest", "/a_b-c/d"}
	invalid := []string{"", "brands", "/brands everest", "/brands?x=1", "/brands.everest"}

	for _, path := range valid {
		assert.True(t, brandPathPattern.MatchString(path), path)
	}
	for _, path := range invalid {
		assert.False(t, brandPathPattern.MatchString(path), path)
	}
}
