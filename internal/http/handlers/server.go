package handlers

import (
	"context"

	"github.com/rogerio-castellano/inventory-vision/internal/auth"
	"github.com/rogerio-castellano/inventory-vision/internal/logging"
	"github.com/rogerio-castellano/inventory-vision/internal/registration"
	"github.com/rogerio-castellano/inventory-vision/internal/repo"
	"github.com/rogerio-castellano/inventory-vision/internal/vision"
)

// ReadinessCheck probes one external dependency for /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

var (
	registrationSvc *registration.Service
	productRepo     repo.ProductRepository
	movementRepo    repo.MovementRepository
	imageRepo       repo.StoredImageRepository
	analyticsRepo   repo.AnalyticsRepository
	tokenManager    *auth.TokenManager
	visionRuntime   *vision.Runtime
	readinessChecks []ReadinessCheck

	log = logging.NewNop()
)

func SetRegistrationService(s *registration.Service) { registrationSvc = s }

func SetProductRepo(r repo.ProductRepository) { productRepo = r }

func SetMovementRepo(r repo.MovementRepository) { movementRepo = r }

func SetImageRepo(r repo.StoredImageRepository) { imageRepo = r }

func SetAnalyticsRepo(r repo.AnalyticsRepository) { analyticsRepo = r }

func SetTokenManager(tm *auth.TokenManager) { tokenManager = tm }

func SetVisionRuntime(rt *vision.Runtime) { visionRuntime = rt }

func SetReadinessChecks(checks []ReadinessCheck) { readinessChecks = checks }

func SetLogger(l *logging.Logger) { log = l }
