package bootstrap

import (
	"context"
	"fmt"

	"talentify-client/internal/api"
	"talentify-client/internal/config"
	"talentify-client/internal/entity"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/repository/contract"
	"talentify-client/internal/repository/implementation"
	"talentify-client/internal/repository/memory"
	"talentify-client/internal/service"
	"talentify-client/internal/session"
	"talentify-client/internal/validation"
	"talentify-client/pkg/gateway"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	Logger *logger.ZapLogger
	Store  *session.Store
	Events *gochannel.GoChannel

	Auth          service.IAuthFlow
	Profile       service.IProfileService
	JobSetup      service.IJobSetupService
	Upload        service.IUploadService
	Results       service.IResultsService
	Notifications *service.NotificationService
	Account       *service.AccountService
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core facades
	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)

	storage, err := newStorage(cfg.Storage, sysLogger)
	if err != nil {
		return nil, err
	}

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)

	// 3. Gateway
	gw := gateway.NewClient(cfg.API.BaseURL, cfg.API.Timeout,
		gateway.WithTokenSource(func(ctx context.Context) string {
			token, _, err := storage.Get(ctx, contract.KeyToken)
			if err != nil {
				sysLogger.Warn("Gateway", "Failed to read auth token", map[string]interface{}{"error": err.Error()})
				return ""
			}
			return token
		}),
	)
	client := api.NewClient(gw)

	// 4. Session store
	store := session.NewStore(storage, client, pubSub, sysLogger, session.Options{
		PollInterval:     cfg.Session.NotificationPollInterval,
		DefaultTheme:     entity.Theme(cfg.Session.DefaultTheme),
		CancelOnNavigate: cfg.Session.CancelOnNavigate,
	})

	// 5. Services
	validator := validation.NewValidator()
	limits := validation.FileLimits{MaxFiles: cfg.Upload.MaxFiles, MaxFileSize: cfg.Upload.MaxFileSize}
	profile := service.NewProfileService(client, store, validator, sysLogger)

	return &Container{
		Logger:        sysLogger,
		Store:         store,
		Events:        pubSub,
		Auth:          service.NewAuthFlow(client, store, profile, validator, sysLogger),
		Profile:       profile,
		JobSetup:      service.NewJobSetupService(client, store, validator, sysLogger),
		Upload:        service.NewUploadService(client, store, limits, sysLogger),
		Results:       service.NewResultsService(client, store, cfg.Upload.DownloadDir, sysLogger),
		Notifications: service.NewNotificationService(store, sysLogger),
		Account:       service.NewAccountService(store),
	}, nil
}

func newStorage(cfg config.StorageConfig, log logger.ILogger) (contract.IStorageRepository, error) {
	switch cfg.Driver {
	case config.StorageDriverMemory:
		return memory.NewStorageRepository(cfg.Prefix), nil
	case config.StorageDriverRedis:
		return implementation.NewRedisStorageRepository(implementation.NewRedisClient(cfg.RedisURL), cfg.Prefix), nil
	case config.StorageDriverFile, "":
		return implementation.NewFileStorageRepository(cfg.Path, cfg.Prefix, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Close stops background work and flushes the logger.
func (c *Container) Close() {
	c.Store.Close()
	_ = c.Events.Close()
	_ = c.Logger.Sync()
}
