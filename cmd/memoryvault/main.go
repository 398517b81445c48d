package main

import (
	"log"
	"math/rand/v2"

	"github.com/vbonduro/memoryvault/internal/clock"
	"github.com/vbonduro/memoryvault/internal/config"
	"github.com/vbonduro/memoryvault/internal/credential"
	"github.com/vbonduro/memoryvault/internal/db"
	"github.com/vbonduro/memoryvault/internal/imagestore/local"
	"github.com/vbonduro/memoryvault/internal/logging"
	"github.com/vbonduro/memoryvault/internal/service"
	"github.com/vbonduro/memoryvault/internal/store"
	"github.com/vbonduro/memoryvault/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	userStore := store.NewUserStore(database)
	familyStore := store.NewFamilyStore(database)
	vaultStore := store.NewVaultStore(database)
	memoryStore := store.NewMemoryStore(database)

	images, err := local.NewLocalImageStore(cfg.ImagePath)
	if err != nil {
		logger.Error("failed to initialize image store", "error", err)
		return
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	hasher := credential.NewBcrypt(cfg.BcryptCost)

	userService := service.NewUserService(userStore, familyStore, hasher, cfg.AdminToken, rng, logger)
	vaultService := service.NewVaultService(vaultStore, memoryStore, clock.System{}, logger)
	memoryService := service.NewMemoryService(memoryStore, images, rng, logger)

	server := web.NewServer(userService, vaultService, memoryService, images, web.Options{
		SessionKey:     cfg.SessionKey,
		SessionName:    cfg.SessionName,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
