package registration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/imaging"
	"github.com/rogerio-castellano/inventory-vision/internal/logging"
	"github.com/rogerio-castellano/inventory-vision/internal/models"
	"github.com/rogerio-castellano/inventory-vision/internal/repo"
	"github.com/rogerio-castellano/inventory-vision/internal/storage"
	"github.com/rogerio-castellano/inventory-vision/internal/vision"
)

// UncertainPolicy decides what happens to the product state when the
// classifier returns the low-confidence sentinel on a re-sighting.
type UncertainPolicy string

const (
	// PolicyWrite persists the sentinel as the product state.
	PolicyWrite UncertainPolicy = "write"
	// PolicySkip keeps the previous state on a low-confidence re-sighting.
	// A first sighting still writes the sentinel: there is no previous
	// state to keep.
	PolicySkip UncertainPolicy = "skip"
)

// Input is one registration request.
type Input struct {
	ImageBase64 string
	Barcode     string
	CapturedBy  string
	Meta        models.ProductMeta
}

// Result is the success envelope of one registration.
type Result struct {
	PredictedLabel string  `json:"predicted_label"`
	Confidence     float64 `json:"confidence_score"`
	ProductID      int     `json:"product_id"`
	Barcode        string  `json:"barcode"`
	StockQuantity  int     `json:"stock_quantity"`
	ImageURL       string  `json:"image_url"`
	Replayed       bool    `json:"-"`
}

// Service sequences classify, upload and upsert into one request-scoped
// operation: decode, classify, upload blob, upsert product, record image
// metadata. There is no compensation: a failure after the upload leaves the
// blob behind (it is logged), and re-running the whole request is the only
// recovery path. Blob keys are derived from the content hash so a retry
// overwrites the same object instead of orphaning a new one.
type Service struct {
	log       *logging.Logger
	runtime   *vision.Runtime
	store     storage.ObjectStore
	products  repo.ProductRepository
	images    repo.StoredImageRepository
	movements repo.MovementRepository
	cache     *ResultCache
	policy    UncertainPolicy
}

func NewService(
	log *logging.Logger,
	runtime *vision.Runtime,
	store storage.ObjectStore,
	products repo.ProductRepository,
	images repo.StoredImageRepository,
	movements repo.MovementRepository,
	cache *ResultCache,
	policy UncertainPolicy,
) *Service {
	if policy == "" {
		policy = PolicyWrite
	}
	return &Service{
		log:       log,
		runtime:   runtime,
		store:     store,
		products:  products,
		images:    images,
		movements: movements,
		cache:     cache,
		policy:    policy,
	}
}

// Register runs the pipeline for one sighting. The returned error, when
// non-nil, is always a *PipelineError.
func (s *Service) Register(ctx context.Context, in Input) (Result, error) {
	// DECODE
	raw, err := imaging.Decode(in.ImageBase64)
	if err != nil {
		return Result{}, userErr(StepDecode, err)
	}
	width, height, contentType, err := imaging.Sniff(raw)
	if err != nil {
		return Result{}, userErr(StepDecode, err)
	}

	key := blobKey(in.Barcode, raw, contentType)

	// A retry of the identical request replays the cached envelope instead
	// of re-running inference and the writes.
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			cached.Replayed = true
			return cached, nil
		}
	}

	// CLASSIFY
	spec, err := s.runtime.InputSpec()
	if err != nil {
		return Result{}, internalErr(StepClassify, err)
	}
	tensor, err := imaging.ToTensor(raw, spec)
	if err != nil {
		return Result{}, userErr(StepClassify, err)
	}
	classification, err := s.runtime.Classify(tensor)
	if err != nil {
		return Result{}, internalErr(StepClassify, err)
	}

	// UPLOAD
	if err := s.store.Put(ctx, key, raw, contentType); err != nil {
		return Result{}, internalErr(StepUpload, err)
	}
	imageURL := s.store.PublicURL(key)

	// UPSERT
	product, err := s.products.RecordSighting(ctx, repo.Sighting{
		Barcode:     in.Barcode,
		State:       classification.Label,
		UpdateState: s.policy == PolicyWrite || !classification.Uncertain(),
		ImageURL:    imageURL,
		Meta:        in.Meta,
	})
	if err != nil {
		s.log.Error("product upsert failed after upload; blob kept",
			"barcode", in.Barcode, "blob_key", key, "error", err)
		if errors.Is(err, repo.ErrInvalidCategory) {
			return Result{}, userErr(StepUpsert, err)
		}
		return Result{}, internalErr(StepUpsert, fmt.Errorf("could not persist product: %w", err))
	}

	if err := s.movements.Log(ctx, product.ID, 1); err != nil {
		// Analytics only; the registration itself already succeeded.
		s.log.Warn("failed to log stock movement", "product_id", product.ID, "error", err)
	}

	// RECORD_IMAGE
	if _, err := s.images.Insert(ctx, models.StoredImage{
		ProductID:   product.ID,
		StoragePath: key,
		Width:       width,
		Height:      height,
		CapturedAt:  time.Now().UTC(),
		CapturedBy:  in.CapturedBy,
	}); err != nil {
		s.log.Error("image metadata insert failed; blob kept",
			"product_id", product.ID, "blob_key", key, "error", err)
		return Result{}, internalErr(StepRecordImage, fmt.Errorf("could not record image metadata: %w", err))
	}

	result := Result{
		PredictedLabel: classification.Label,
		Confidence:     classification.Confidence,
		ProductID:      product.ID,
		Barcode:        product.Barcode,
		StockQuantity:  product.StockQuantity,
		ImageURL:       imageURL,
	}
	if s.cache != nil {
		s.cache.Put(ctx, key, result)
	}
	return result, nil
}

// blobKey names a blob deterministically from barcode and content so the same
// photo of the same barcode always maps to the same object.
func blobKey(barcode string, data []byte, contentType string) string {
	sum := sha256.Sum256(append([]byte(barcode+"\x00"), data...))
	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	}
	return fmt.Sprintf("products/%s/%s.%s", barcode, hex.EncodeToString(sum[:8]), ext)
}
