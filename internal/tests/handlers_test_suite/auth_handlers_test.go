package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/rogerio-castellano/inventory-vision/internal/http"
	handler "github.com/rogerio-castellano/inventory-vision/internal/http/handlers"
)

func postToken(r http.Handler, req handler.TokenRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func TestIssueTokenHandler_Valid(t *testing.T) {
	r := api.NewRouter()

	w := postToken(r, handler.TokenRequest{Username: "operator", Password: "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp handler.TokenResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
}

func TestIssueTokenHandler_InvalidCredentials(t *testing.T) {
	r := api.NewRouter()

	tests := []handler.TokenRequest{
		{Username: "operator", Password: "wrong"},
		{Username: "stranger", Password: "secret"},
		{},
	}
	for _, req := range tests {
		w := postToken(r, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%+v: expected 401, got %d", req, w.Code)
		}
	}
}
