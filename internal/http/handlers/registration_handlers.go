package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
	"github.com/rogerio-castellano/inventory-vision/internal/registration"
)

// RegisterProductHandler godoc
// @Summary Register a product sighting from a photo
// @Description Classifies the product condition from the photo, stores the photo and upserts the product's stock row
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registration body RegistrationRequest true "Photo and barcode"
// @Success 200 {object} RegistrationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/registrations [post]
func RegisterProductHandler(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	if validationErrors := validateRegistration(req); len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	capturedBy := req.CapturedBy
	if capturedBy == "" {
		capturedBy = OperatorFromContext(r.Context())
	}

	result, err := registrationSvc.Register(r.Context(), registration.Input{
		ImageBase64: req.ImageBase64,
		Barcode:     req.Barcode,
		CapturedBy:  capturedBy,
		Meta: models.ProductMeta{
			Name:          req.Name,
			Brand:         req.Brand,
			Model:         req.Model,
			CategoryID:    req.CategoryID,
			Compatibility: req.Compatibility,
			Notes:         req.Notes,
		},
	})
	if err != nil {
		var pipeErr *registration.PipelineError
		if errors.As(err, &pipeErr) && pipeErr.UserFacing {
			writeError(w, http.StatusBadRequest, pipeErr.Err.Error())
			return
		}
		log.Error("registration failed", "barcode", req.Barcode, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, RegistrationResponse{
		Status:          "success",
		PredictedLabel:  result.PredictedLabel,
		ConfidenceScore: result.Confidence,
		ProductID:       result.ProductID,
		StockQuantity:   result.StockQuantity,
		ImageURL:        result.ImageURL,
		Replayed:        result.Replayed,
	})
}
