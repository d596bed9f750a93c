package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/inventory-vision/internal/repo"
)

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /api/products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll(r.Context())
	if err != nil {
		log.Error("failed to list products", "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProductByBarcodeHandler godoc
// @Summary Get a product by barcode
// @Tags products
// @Produce json
// @Param barcode path string true "Product barcode"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{barcode} [get]
func GetProductByBarcodeHandler(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	product, err := productRepo.GetByBarcode(r.Context(), barcode)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		log.Error("failed to fetch product", "barcode", barcode, "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// GetProductMovementsHandler godoc
// @Summary List stock movements for a product
// @Tags products
// @Produce json
// @Param barcode path string true "Product barcode"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} MovementsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{barcode}/movements [get]
func GetProductMovementsHandler(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	product, err := productRepo.GetByBarcode(r.Context(), barcode)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not fetch product")
		return
	}

	mf, err := movementFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movements, total, err := movementRepo.ListByProduct(r.Context(), product.ID, mf)
	if err != nil {
		log.Error("failed to list movements", "barcode", barcode, "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch movements")
		return
	}

	result := MovementsSearchResult{Meta: Meta{TotalCount: total}}
	result.Data = make([]MovementResponse, len(movements))
	for i, m := range movements {
		result.Data[i] = MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Delta:     m.Delta,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// GetProductImagesHandler godoc
// @Summary List stored photos for a product
// @Tags products
// @Produce json
// @Param barcode path string true "Product barcode"
// @Success 200 {array} models.StoredImage
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{barcode}/images [get]
func GetProductImagesHandler(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	product, err := productRepo.GetByBarcode(r.Context(), barcode)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not fetch product")
		return
	}

	images, err := imageRepo.ListByProduct(r.Context(), product.ID)
	if err != nil {
		log.Error("failed to list images", "barcode", barcode, "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch images")
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func movementFilterFromQuery(r *http.Request) (repo.MovementFilter, error) {
	var mf repo.MovementFilter
	q := r.URL.Query()

	if s := q.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return mf, errors.New("since must be RFC3339")
		}
		mf.Since = &t
	}
	if s := q.Get("until"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return mf, errors.New("until must be RFC3339")
		}
		mf.Until = &t
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return mf, errors.New("limit must be a non-negative integer")
		}
		mf.Limit = &n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return mf, errors.New("offset must be a non-negative integer")
		}
		mf.Offset = &n
	}
	return mf, nil
}
