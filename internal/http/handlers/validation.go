package handlers

import "strings"

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateRegistration(req RegistrationRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(req.ImageBase64) == "" {
		errs = append(errs, ValidationError{Field: "image_base64", Description: "image_base64 is required"})
	}
	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		errs = append(errs, ValidationError{Field: "barcode", Description: "barcode is required"})
	} else if len(barcode) > 64 {
		errs = append(errs, ValidationError{Field: "barcode", Description: "barcode must be at most 64 characters"})
	}
	return errs
}
