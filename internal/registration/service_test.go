package registration

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/imaging"
	"github.com/rogerio-castellano/inventory-vision/internal/logging"
	"github.com/rogerio-castellano/inventory-vision/internal/models"
	"github.com/rogerio-castellano/inventory-vision/internal/repo"
	"github.com/rogerio-castellano/inventory-vision/internal/storage"
	"github.com/rogerio-castellano/inventory-vision/internal/vision"
	"github.com/rogerio-castellano/inventory-vision/internal/vision/visiontest"
)

const testInputSize = 8

type fixture struct {
	svc       *Service
	runtime   *vision.Runtime
	products  *repo.InMemoryProductRepository
	images    *repo.InMemoryStoredImageRepository
	movements *repo.InMemoryMovementRepository
	store     *storage.InMemoryStore
}

// withCache rebuilds the fixture's service with a replay cache over the given
// store.
func (f *fixture) withCache(cs CacheStore) {
	cache := NewResultCache(cs, time.Hour, logging.NewNop())
	f.svc = NewService(logging.NewNop(), f.runtime, f.store, f.products, f.images, f.movements, cache, PolicyWrite)
}

// newFixture builds a service whose model always outputs the given vector
// over labels [nuevo usado mal_estado].
func newFixture(t *testing.T, output []float32, threshold float64, policy UncertainPolicy) *fixture {
	t.Helper()
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.ivml")
	labelsPath := filepath.Join(dir, "labels.txt")
	if err := visiontest.WriteBiasModel(modelPath, testInputSize, imaging.NormalizationCentered, output); err != nil {
		t.Fatal(err)
	}
	if err := visiontest.WriteLabels(labelsPath, []string{"nuevo", "usado", "mal_estado"}); err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		products:  repo.NewInMemoryProductRepository(),
		images:    repo.NewInMemoryStoredImageRepository(),
		movements: repo.NewInMemoryMovementRepository(),
		store:     storage.NewInMemoryStore(),
	}
	f.runtime = vision.NewRuntime(modelPath, labelsPath, threshold)
	if status, reason := f.runtime.Status(); status != vision.StatusReady {
		t.Fatalf("model not ready: %s", reason)
	}
	f.svc = NewService(logging.NewNop(), f.runtime, f.store, f.products, f.images, f.movements, nil, policy)
	return f
}

// newFixtureSharing builds a second service over an existing fixture's repos
// and store, with a different model output and policy.
func newFixtureSharing(t *testing.T, base *fixture, output []float32, threshold float64, policy UncertainPolicy) *Service {
	t.Helper()
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.ivml")
	labelsPath := filepath.Join(dir, "labels.txt")
	if err := visiontest.WriteBiasModel(modelPath, testInputSize, imaging.NormalizationCentered, output); err != nil {
		t.Fatal(err)
	}
	if err := visiontest.WriteLabels(labelsPath, []string{"nuevo", "usado", "mal_estado"}); err != nil {
		t.Fatal(err)
	}
	runtime := vision.NewRuntime(modelPath, labelsPath, threshold)
	return NewService(logging.NewNop(), runtime, base.store, base.products, base.images, base.movements, nil, policy)
}

func photoBase64(t *testing.T, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRegister_FirstSighting(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)

	res, err := f.svc.Register(context.Background(), Input{
		ImageBase64: photoBase64(t, color.RGBA{200, 10, 10, 255}),
		Barcode:     "7791234567890",
		CapturedBy:  "operator@example.com",
		Meta:        models.ProductMeta{Name: "Taladro", Brand: "Bosch"},
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if res.PredictedLabel != "nuevo" {
		t.Errorf("expected label 'nuevo', got %q", res.PredictedLabel)
	}
	if res.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", res.Confidence)
	}
	if res.StockQuantity != 1 {
		t.Errorf("expected stock 1, got %d", res.StockQuantity)
	}
	if res.ImageURL == "" {
		t.Error("expected an image URL")
	}

	p, err := f.products.GetByBarcode(context.Background(), "7791234567890")
	if err != nil {
		t.Fatal(err)
	}
	if p.State != "nuevo" || p.Availability != repo.AvailabilityLow {
		t.Errorf("unexpected product row: %+v", p)
	}

	if f.store.Len() != 1 {
		t.Errorf("expected 1 blob, got %d", f.store.Len())
	}
	if f.images.Count() != 1 {
		t.Errorf("expected 1 image row, got %d", f.images.Count())
	}
	images, _ := f.images.ListByProduct(context.Background(), p.ID)
	if len(images) != 1 || images[0].Width != 16 || images[0].Height != 16 {
		t.Errorf("unexpected image metadata: %+v", images)
	}
	if images[0].CapturedBy != "operator@example.com" {
		t.Errorf("captured_by not recorded: %+v", images[0])
	}

	movements, total, err := f.movements.ListByProduct(context.Background(), p.ID, repo.MovementFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || movements[0].Delta != 1 {
		t.Errorf("expected one +1 movement, got total=%d %+v", total, movements)
	}
}

func TestRegister_RepeatSightingIncrementsAndDedupesBlob(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	payload := photoBase64(t, color.RGBA{20, 200, 20, 255})

	if _, err := f.svc.Register(context.Background(), Input{ImageBase64: payload, Barcode: "123"}); err != nil {
		t.Fatal(err)
	}
	res, err := f.svc.Register(context.Background(), Input{
		ImageBase64: payload,
		Barcode:     "123",
		Meta:        models.ProductMeta{Name: "should be ignored"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if res.StockQuantity != 2 {
		t.Errorf("expected stock 2, got %d", res.StockQuantity)
	}
	// Same content, same barcode: the deterministic key overwrites the same
	// object instead of orphaning a second one.
	if f.store.Len() != 1 {
		t.Errorf("expected 1 blob after retry, got %d", f.store.Len())
	}
	p, _ := f.products.GetByBarcode(context.Background(), "123")
	if p.Name != "unnamed" {
		t.Errorf("metadata overwritten on re-sighting: %+v", p)
	}
}

func TestRegister_MalformedBase64FailsFast(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)

	_, err := f.svc.Register(context.Background(), Input{ImageBase64: "!!bogus!!", Barcode: "123"})

	var pipeErr *PipelineError
	if !errors.As(err, &pipeErr) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pipeErr.Step != StepDecode || !pipeErr.UserFacing {
		t.Errorf("expected user-facing decode failure, got %+v", pipeErr)
	}
	// No side effects at all: nothing uploaded, nothing persisted.
	if f.store.Len() != 0 || f.images.Count() != 0 {
		t.Error("decode failure must not touch storage")
	}
	if _, err := f.products.GetByBarcode(context.Background(), "123"); !errors.Is(err, repo.ErrProductNotFound) {
		t.Error("decode failure must not create a product")
	}
}

func TestRegister_NotAnImageFailsFast(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	payload := base64.StdEncoding.EncodeToString([]byte("plain text"))

	_, err := f.svc.Register(context.Background(), Input{ImageBase64: payload, Barcode: "123"})

	var pipeErr *PipelineError
	if !errors.As(err, &pipeErr) || pipeErr.Step != StepDecode {
		t.Fatalf("expected decode failure, got %v", err)
	}
	if f.store.Len() != 0 {
		t.Error("nothing may be uploaded for a non-image payload")
	}
}

func TestRegister_UploadFailure(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	f.store.FailPut = true

	_, err := f.svc.Register(context.Background(), Input{
		ImageBase64: photoBase64(t, color.RGBA{1, 2, 3, 255}),
		Barcode:     "123",
	})

	var pipeErr *PipelineError
	if !errors.As(err, &pipeErr) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pipeErr.Step != StepUpload || pipeErr.UserFacing {
		t.Errorf("expected internal upload failure, got %+v", pipeErr)
	}
	if !errors.Is(err, storage.ErrUpload) {
		t.Errorf("expected ErrUpload in chain, got %v", err)
	}
	if _, err := f.products.GetByBarcode(context.Background(), "123"); !errors.Is(err, repo.ErrProductNotFound) {
		t.Error("upload failure must not create a product")
	}
}

func TestRegister_UpsertFailureLeavesOrphanBlob(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	f.products.FailWrites = errors.New("connection reset")

	_, err := f.svc.Register(context.Background(), Input{
		ImageBase64: photoBase64(t, color.RGBA{1, 2, 3, 255}),
		Barcode:     "123",
	})

	var pipeErr *PipelineError
	if !errors.As(err, &pipeErr) || pipeErr.Step != StepUpsert {
		t.Fatalf("expected upsert failure, got %v", err)
	}
	if pipeErr.UserFacing {
		t.Error("a generic persistence failure is internal, not user-facing")
	}
	// The blob was already uploaded; there is no compensation, so it stays.
	if f.store.Len() != 1 {
		t.Errorf("expected the orphan blob to remain, got %d", f.store.Len())
	}
	if f.images.Count() != 0 {
		t.Error("no image row may exist after an upsert failure")
	}
}

func TestRegister_UnknownCategoryIsUserFacing(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	f.products.KnownCategories = map[int]bool{1: true}
	badCategory := 99

	_, err := f.svc.Register(context.Background(), Input{
		ImageBase64: photoBase64(t, color.RGBA{1, 2, 3, 255}),
		Barcode:     "123",
		Meta:        models.ProductMeta{CategoryID: &badCategory},
	})

	var pipeErr *PipelineError
	if !errors.As(err, &pipeErr) || pipeErr.Step != StepUpsert {
		t.Fatalf("expected upsert failure, got %v", err)
	}
	if !pipeErr.UserFacing {
		t.Error("an unknown category is a business error, not an internal one")
	}
}

func TestRegister_RecordImageFailure(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	f.images.FailInserts = errors.New("insert failed")

	_, err := f.svc.Register(context.Background(), Input{
		ImageBase64: photoBase64(t, color.RGBA{1, 2, 3, 255}),
		Barcode:     "123",
	})

	var pipeErr *PipelineError
	if !errors.As(err, &pipeErr) || pipeErr.Step != StepRecordImage {
		t.Fatalf("expected record_image failure, got %v", err)
	}
	// The upsert already happened; the pipeline does not roll it back.
	p, perr := f.products.GetByBarcode(context.Background(), "123")
	if perr != nil {
		t.Fatal("product row should exist after a record_image failure")
	}
	if p.StockQuantity != 1 {
		t.Errorf("expected stock 1, got %d", p.StockQuantity)
	}
}

func TestRegister_UncertainWritesSentinel(t *testing.T) {
	// Confidence 0.4 against threshold 0.8: sentinel written as state under
	// the default write policy.
	f := newFixture(t, []float32{0.4, 0.3, 0.3}, 0.8, PolicyWrite)

	res, err := f.svc.Register(context.Background(), Input{
		ImageBase64: photoBase64(t, color.RGBA{1, 2, 3, 255}),
		Barcode:     "123",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.PredictedLabel != vision.SentinelLabel {
		t.Errorf("expected sentinel, got %q", res.PredictedLabel)
	}
	if res.Confidence != 0.4 {
		t.Errorf("true confidence must be reported, got %v", res.Confidence)
	}
	p, _ := f.products.GetByBarcode(context.Background(), "123")
	if p.State != vision.SentinelLabel {
		t.Errorf("expected sentinel persisted as state, got %q", p.State)
	}
}

func TestRegister_SkipPolicyKeepsPreviousState(t *testing.T) {
	confident := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	if _, err := confident.svc.Register(context.Background(), Input{
		ImageBase64: photoBase64(t, color.RGBA{5, 5, 5, 255}),
		Barcode:     "123",
	}); err != nil {
		t.Fatal(err)
	}

	uncertain := newFixtureSharing(t, confident, []float32{0.4, 0.3, 0.3}, 0.8, PolicySkip)
	res, err := uncertain.Register(context.Background(), Input{
		ImageBase64: photoBase64(t, color.RGBA{9, 9, 9, 255}),
		Barcode:     "123",
	})
	if err != nil {
		t.Fatal(err)
	}

	if res.PredictedLabel != vision.SentinelLabel {
		t.Errorf("the envelope still reports the sentinel, got %q", res.PredictedLabel)
	}
	p, _ := confident.products.GetByBarcode(context.Background(), "123")
	if p.State != "nuevo" {
		t.Errorf("skip policy must keep the previous state, got %q", p.State)
	}
	if p.StockQuantity != 2 {
		t.Errorf("stock must still increment, got %d", p.StockQuantity)
	}
}

func TestRegister_ReplaysCachedEnvelope(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	cs := NewInMemoryCacheStore()
	f.withCache(cs)
	payload := photoBase64(t, color.RGBA{30, 30, 30, 255})
	in := Input{ImageBase64: payload, Barcode: "123"}

	first, err := f.svc.Register(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if first.Replayed {
		t.Error("first registration must not be a replay")
	}
	if cs.Len() != 1 {
		t.Fatalf("expected 1 cached envelope, got %d", cs.Len())
	}

	second, err := f.svc.Register(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Replayed {
		t.Error("identical retry must be flagged as a replay")
	}
	// The cached envelope comes back verbatim and the pipeline is skipped:
	// no second stock increment, image row or movement.
	if second.StockQuantity != 1 {
		t.Errorf("expected the cached stock 1, got %d", second.StockQuantity)
	}
	if second.ImageURL != first.ImageURL {
		t.Errorf("envelope differs from the original: %q vs %q", second.ImageURL, first.ImageURL)
	}
	if f.images.Count() != 1 {
		t.Errorf("replay must not record a second image, got %d", f.images.Count())
	}
	p, _ := f.products.GetByBarcode(context.Background(), "123")
	if p.StockQuantity != 1 {
		t.Errorf("replay must not increment stock, got %d", p.StockQuantity)
	}
	_, total, _ := f.movements.ListByProduct(context.Background(), p.ID, repo.MovementFilter{})
	if total != 1 {
		t.Errorf("replay must not log a movement, got %d", total)
	}
}

func TestRegister_CacheDownDegradesToRerun(t *testing.T) {
	f := newFixture(t, []float32{0.9, 0.05, 0.05}, 0.5, PolicyWrite)
	cs := NewInMemoryCacheStore()
	cs.FailOps = errors.New("connection refused")
	f.withCache(cs)
	payload := photoBase64(t, color.RGBA{30, 30, 30, 255})
	in := Input{ImageBase64: payload, Barcode: "123"}

	if _, err := f.svc.Register(context.Background(), in); err != nil {
		t.Fatalf("a broken cache must not fail registrations: %v", err)
	}
	second, err := f.svc.Register(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	// No replay available, so the retry runs the full pipeline again.
	if second.Replayed {
		t.Error("no replay possible with the cache down")
	}
	if second.StockQuantity != 2 {
		t.Errorf("expected the pipeline to re-run, got stock %d", second.StockQuantity)
	}
}
