package main

import (
	"github.com/fotopool/fotopool-sessions/handlers"
	"github.com/fotopool/fotopool-sessions/services"
	"github.com/fotopool/fotopool-sessions/store"
)

type Stores struct {
	blobs    store.BlobStore
	sessions store.SessionStore
}

type Services struct {
	Sessions services.SessionService
	Photos   services.PhotoService

	Stores *Stores

	HTTPHandler *handlers.HttpHandler
}

func BuildServices(app *App) *Services {
	blobs := store.NewS3BlobStoreImpl(app.S3, app.Config.AWSConfig.Bucket, app.Logger)
	sessStore := store.NewSessionStoreImpl(blobs)

	sessSvc := services.NewSessionServiceImpl(sessStore, app.Config.Limits.SessionTTL, app.Logger)
	photoSvc := services.NewPhotoServiceImpl(
		sessStore,
		blobs,
		app.Config.Limits.MaxPhotosPerSession,
		app.Config.Limits.MaxFileSizeBytes(),
		app.Logger,
	)

	handler := handlers.NewHttpHandler(sessSvc, photoSvc, app.Logger)

	return &Services{
		Sessions: sessSvc,
		Photos:   photoSvc,

		Stores: &Stores{
			blobs:    blobs,
			sessions: sessStore,
		},

		HTTPHandler: handler,
	}
}
