// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/StackForgeHQ/stackforge-go/internal/application/services"
	domainservices "github.com/StackForgeHQ/stackforge-go/internal/domain/services"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/manager"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/email"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/media"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/performance"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/persistence/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/persistence/database"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies.
type Container struct {
	// Content services
	PageService      *services.PageService
	NewsService      *services.NewsService
	MemberService    *services.MemberService
	ImageFileService *services.ImageFileService

	// Editor sync engine
	LoaderService    *services.LoaderService
	AssetSyncService *services.AssetSyncService
	PayloadService   *services.PayloadService
	SurfaceSession   *services.SurfaceSessionService
	StyleResolver    *domainservices.StyleIdentityResolver

	// Infrastructure
	DB           *database.DB
	CacheManager *manager.Manager
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
}

// NewContainer creates and wires all singleton services. The mailer may be
// nil when no Resend key is configured; member creation then skips the
// welcome email.
func NewContainer(db *database.DB, cacheManager *manager.Manager, logger *logging.ChanneledLogger, mailer email.Service) *Container {
	pageRepo := content.NewPageRepository(db.DB, cacheManager, logger)
	newsRepo := content.NewNewsRepository(db.DB, cacheManager, logger)
	memberRepo := content.NewMemberRepository(db.DB, cacheManager, logger)
	imageFileRepo := content.NewImageFileRepository(db.DB, cacheManager, logger)

	processor := media.NewImageProcessor(config.MediaBasePath)

	pageService := services.NewPageService(pageRepo)
	imageFileService := services.NewImageFileService(imageFileRepo, processor, logger)

	resolver := domainservices.NewStyleIdentityResolver(logger.Content())
	payloadService := services.NewPayloadService(resolver, logger)
	loaderService := services.NewLoaderService(logger, nil)
	assetSyncService := services.NewAssetSyncService(imageFileService, logger, nil)
	surfaceSession := services.NewSurfaceSessionService(loaderService, assetSyncService, payloadService, pageService, logger)

	return &Container{
		PageService:      pageService,
		NewsService:      services.NewNewsService(newsRepo),
		MemberService:    services.NewMemberService(memberRepo, mailer, logger),
		ImageFileService: imageFileService,

		LoaderService:    loaderService,
		AssetSyncService: assetSyncService,
		PayloadService:   payloadService,
		SurfaceSession:   surfaceSession,
		StyleResolver:    resolver,

		DB:           db,
		CacheManager: cacheManager,
		Logger:       logger,
		PerfTracker:  performance.NewTracker(),
	}
}
