package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/service/cache"
	"github.com/kapu/voicebot-go/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	var (
		action    string
		dataFile  string
		redisHost string
		redisPort int
		redisPass string
		redisDB   int
		key       string
	)

	flag.StringVar(&action, "action", "inspect", "inspect | push (file -> redis) | pull (redis -> file) | clear (delete redis copy)")
	flag.StringVar(&dataFile, "file", envOr("DATA_FILE", "voicebot_data.json"), "snapshot file path")
	flag.StringVar(&redisHost, "redis-host", envOr("REDIS_HOST", "localhost"), "redis host")
	flag.IntVar(&redisPort, "redis-port", envIntOr("REDIS_PORT", 6379), "redis port")
	flag.StringVar(&redisPass, "redis-password", os.Getenv("REDIS_PASSWORD"), "redis password")
	flag.IntVar(&redisDB, "redis-db", envIntOr("REDIS_DB", 0), "redis database")
	flag.StringVar(&key, "key", envOr("REDIS_SNAPSHOT_KEY", "voicebot:snapshot"), "redis snapshot key")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fileStore := store.NewFileStore(dataFile, logger)

	switch action {
	case "inspect":
		printSnapshot(fileStore.Load(ctx))
		return
	case "push", "pull", "clear":
	default:
		fmt.Fprintf(os.Stderr, "unknown action %q\n", action)
		os.Exit(2)
	}

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     redisHost,
		Port:     redisPort,
		Password: redisPass,
		DB:       redisDB,
	}, logger)
	if err != nil {
		logger.Fatal("Redis unavailable", zap.Error(err))
	}
	defer cacheSvc.Close()

	if action == "clear" {
		if err := cacheSvc.Del(ctx, key); err != nil {
			logger.Fatal("Failed to delete mirrored snapshot", zap.Error(err))
		}
		logger.Info("Mirrored snapshot deleted", zap.String("key", key))
		return
	}

	if action == "push" {
		cfg := fileStore.Load(ctx)
		if err := cacheSvc.Set(ctx, key, cfg, 0); err != nil {
			logger.Fatal("Failed to push snapshot", zap.Error(err))
		}
		logger.Info("Snapshot pushed", zap.String("file", dataFile), zap.String("key", key))
		return
	}

	cfg := domain.NewConfiguration()
	found, err := cacheSvc.Get(ctx, key, cfg)
	if err != nil {
		logger.Fatal("Failed to read snapshot from Redis", zap.Error(err))
	}
	if !found {
		logger.Fatal("No snapshot stored under key", zap.String("key", key))
	}
	if err := fileStore.Save(ctx, cfg); err != nil {
		logger.Fatal("Failed to write snapshot file", zap.Error(err))
	}
	logger.Info("Snapshot pulled", zap.String("key", key), zap.String("file", dataFile))
}

func printSnapshot(cfg *domain.Configuration) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
	fmt.Printf("\nwaiting: BDA=%d REF=%d INVISIBLE=%d | temporary=%d | roles: allowed=%d command=%d manage=%d citizens=%d\n",
		len(cfg.BDAChannels), len(cfg.REFChannels), len(cfg.InvisibleChannels), len(cfg.TemporaryChannels),
		len(cfg.AllowedRoles), len(cfg.CommandRoles), len(cfg.ManageRoles), len(cfg.CitizenRoles))
}
