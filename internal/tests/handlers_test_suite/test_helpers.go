package handlers_test_suite

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/auth"
	api "github.com/rogerio-castellano/inventory-vision/internal/http"
	handler "github.com/rogerio-castellano/inventory-vision/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-vision/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-vision/internal/imaging"
	"github.com/rogerio-castellano/inventory-vision/internal/logging"
	"github.com/rogerio-castellano/inventory-vision/internal/registration"
	"github.com/rogerio-castellano/inventory-vision/internal/repo"
	"github.com/rogerio-castellano/inventory-vision/internal/storage"
	"github.com/rogerio-castellano/inventory-vision/internal/vision"
	"github.com/rogerio-castellano/inventory-vision/internal/vision/visiontest"
	"golang.org/x/crypto/bcrypt"
)

var (
	token        string
	productRepo  *repo.InMemoryProductRepository
	movementRepo *repo.InMemoryMovementRepository
	imageRepo    *repo.InMemoryStoredImageRepository
	store        *storage.InMemoryStore
	runtime      *vision.Runtime
)

func init() {
	setupTestEnv("secret")
	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "operator", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

// setupTestEnv wires the handler package against in-memory backends and a
// model fixture that always answers "nuevo" at confidence 0.9.
func setupTestEnv(password string) {
	dir, err := os.MkdirTemp("", "invision-handlers")
	if err != nil {
		panic(err)
	}
	modelPath := filepath.Join(dir, "model.ivml")
	labelsPath := filepath.Join(dir, "labels.txt")
	if err := visiontest.WriteBiasModel(modelPath, 8, imaging.NormalizationCentered, []float32{0.9, 0.05, 0.05}); err != nil {
		panic(err)
	}
	if err := visiontest.WriteLabels(labelsPath, []string{"nuevo", "usado", "mal_estado"}); err != nil {
		panic(err)
	}
	runtime = vision.NewRuntime(modelPath, labelsPath, 0.5)

	productRepo = repo.NewInMemoryProductRepository()
	movementRepo = repo.NewInMemoryMovementRepository()
	imageRepo = repo.NewInMemoryStoredImageRepository()
	store = storage.NewInMemoryStore()

	log := logging.NewNop()
	svc := registration.NewService(log, runtime, store, productRepo, imageRepo, movementRepo, nil, registration.PolicyWrite)

	handler.SetLogger(log)
	handler.SetRegistrationService(svc)
	handler.SetProductRepo(productRepo)
	handler.SetMovementRepo(movementRepo)
	handler.SetImageRepo(imageRepo)
	handler.SetAnalyticsRepo(repo.NewInMemoryAnalyticsRepository(productRepo, movementRepo))
	handler.SetVisionRuntime(runtime)
	handler.SetReadinessChecks(nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	tm := auth.NewTokenManager("test-secret", "operator", string(hash), 15*time.Minute)
	handler.SetTokenManager(tm)
	api.SetTokenManager(tm)
	api.SetLogger(log)
	api.SetCORSOrigins([]string{"http://localhost:3000"})
	rate_limiter.SetLimits(1000, 1000)
}

func clearAll() {
	setupTestEnv("secret")
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.TokenRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.TokenResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

// photoBase64 produces a solid-color PNG as a data-URL payload, the way the
// capture client sends photos.
func photoBase64(c color.RGBA) string {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func registerSighting(r http.Handler, req handler.RegistrationRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/api/registrations", bytes.NewReader(body))
	httpReq.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func getJSON(r http.Handler, path string, out any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			panic(fmt.Sprintf("decoding %s: %v", path, err))
		}
	}
	return w
}
