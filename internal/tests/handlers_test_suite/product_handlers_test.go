package handlers_test_suite

import (
	"image/color"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/inventory-vision/internal/http"
	handler "github.com/rogerio-castellano/inventory-vision/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

func TestGetProductsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	var products []models.Product
	w := getJSON(r, "/api/products", &products)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(products) != 0 {
		t.Fatalf("expected an empty catalog, got %d products", len(products))
	}

	registerSighting(r, handler.RegistrationRequest{
		ImageBase64: photoBase64(color.RGBA{50, 50, 50, 255}),
		Barcode:     "111",
		Name:        "Llave inglesa",
	})
	registerSighting(r, handler.RegistrationRequest{
		ImageBase64: photoBase64(color.RGBA{60, 60, 60, 255}),
		Barcode:     "222",
	})

	products = nil
	getJSON(r, "/api/products", &products)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
}

func TestGetProductByBarcodeHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	registerSighting(r, handler.RegistrationRequest{
		ImageBase64: photoBase64(color.RGBA{50, 50, 50, 255}),
		Barcode:     "7791234567890",
		Name:        "Amoladora",
		Brand:       "Makita",
	})

	var p models.Product
	w := getJSON(r, "/api/products/7791234567890", &p)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if p.Name != "Amoladora" || p.Brand != "Makita" {
		t.Errorf("unexpected product: %+v", p)
	}
	if p.State != "nuevo" {
		t.Errorf("expected state 'nuevo', got %q", p.State)
	}

	w = getJSON(r, "/api/products/does-not-exist", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown barcode, got %d", w.Code)
	}
}

func TestGetProductMovementsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()
	payload := photoBase64(color.RGBA{10, 10, 10, 255})

	for i := 0; i < 3; i++ {
		registerSighting(r, handler.RegistrationRequest{ImageBase64: payload, Barcode: "333"})
	}

	var result handler.MovementsSearchResult
	w := getJSON(r, "/api/products/333/movements", &result)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if result.Meta.TotalCount != 3 {
		t.Errorf("expected 3 movements, got %d", result.Meta.TotalCount)
	}
	for _, m := range result.Data {
		if m.Delta != 1 {
			t.Errorf("every sighting logs +1, got %+v", m)
		}
	}

	result = handler.MovementsSearchResult{}
	getJSON(r, "/api/products/333/movements?limit=2", &result)
	if len(result.Data) != 2 || result.Meta.TotalCount != 3 {
		t.Errorf("expected page of 2 with total 3, got %d/%d", len(result.Data), result.Meta.TotalCount)
	}

	w = getJSON(r, "/api/products/333/movements?since=yesterday", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed since, got %d", w.Code)
	}

	w = getJSON(r, "/api/products/404/movements", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown product, got %d", w.Code)
	}
}

func TestGetProductImagesHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	registerSighting(r, handler.RegistrationRequest{
		ImageBase64: photoBase64(color.RGBA{10, 10, 10, 255}),
		Barcode:     "444",
		CapturedBy:  "operator@example.com",
	})

	var images []models.StoredImage
	w := getJSON(r, "/api/products/444/images", &images)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].Width != 16 || images[0].Height != 16 {
		t.Errorf("unexpected dimensions: %+v", images[0])
	}
	if images[0].CapturedBy != "operator@example.com" {
		t.Errorf("captured_by not recorded: %+v", images[0])
	}
}
