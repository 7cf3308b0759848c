package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"github.com/rksearch/rksearch/internal/compress"
	"github.com/rksearch/rksearch/internal/config"
	"github.com/rksearch/rksearch/internal/db"
	"github.com/rksearch/rksearch/internal/docfilter"
	"github.com/rksearch/rksearch/internal/index"
	"github.com/rksearch/rksearch/internal/logger"
	"github.com/rksearch/rksearch/internal/match"
	"github.com/rksearch/rksearch/internal/storage"
)

func loadAWSConfig(region string) (cfg aws.Config, err error) {
	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(region)}
	if ep := os.Getenv("AWS_ENDPOINT_URL"); ep != "" {
		res := aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: ep, SigningRegion: region}, nil
			})
		opts = append(opts, awsConfig.WithEndpointResolver(res))
	}
	return awsConfig.LoadDefaultConfig(context.Background(), opts...)
}

type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (l *zapLoggerAdapter) Print(v ...interface{}) {
	l.logger.Sugar().Info(v...)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, index.ErrUnknownDocument):
		return http.StatusNotFound
	case errors.Is(err, match.ErrEmptyPattern),
		errors.Is(err, index.ErrUnknownMode),
		errors.Is(err, index.ErrNoArchive),
		errors.Is(err, docfilter.ErrWindowMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// apply migrations
	m, err := migrate.New(
		"file://"+os.Getenv("PWD")+"/migrations",
		cfg.PostgresDSN,
	)
	if err != nil {
		panic(err)
	}
	_ = m.Up() // ignore ErrNoChange

	log := logger.New(cfg.LogLevel, cfg.LogJSON)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	dbClient, err := db.New(cfg)
	if err != nil {
		zap.L().Fatal("DB init", zap.Error(err))
	}
	defer dbClient.Close()

	// the archive is optional: without a bucket the service still
	// indexes documents posted over HTTP
	var archive index.Archive
	if cfg.S3Bucket != "" {
		codec, err := compress.ByName(cfg.ArchiveCodec)
		if err != nil {
			zap.L().Fatal("archive codec", zap.Error(err))
		}
		awsCfg, err := loadAWSConfig(cfg.AWSRegion)
		if err != nil {
			zap.L().Fatal("AWS config", zap.Error(err))
		}
		store, err := storage.NewWithClient(cfg.S3Bucket, codec, awsCfg)
		if err != nil {
			zap.L().Fatal("S3 init", zap.Error(err))
		}
		archive = store
	}

	svc := index.New(dbClient, archive, cfg.BloomBits, cfg.BloomHashes)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	zapAdapter := &zapLoggerAdapter{logger: zap.L()}
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: zapAdapter, NoColor: false}))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/documents", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("X-Doc-Name")
		if name == "" {
			http.Error(w, "missing X-Doc-Name header", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		docID, err := svc.Add(r.Context(), name, data)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"docID": docID,
			"name":  name,
			"size":  len(data),
		})
	})

	r.Post("/documents/from-archive", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
			Key  string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.Key == "" {
			http.Error(w, "name and key are required", http.StatusBadRequest)
			return
		}
		docID, err := svc.AddFromArchive(r.Context(), req.Name, req.Key)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"docID": docID})
	})

	r.Get("/documents", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(svc.Documents())
	})

	r.Get("/documents/{docID}/search", func(w http.ResponseWriter, r *http.Request) {
		pattern := r.URL.Query().Get("q")
		mode, err := index.ParseMode(r.URL.Query().Get("mode"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		docID := chi.URLParam(r, "docID")
		res, err := svc.Search(r.Context(), docID, []byte(pattern), mode)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"docID":      docID,
			"mode":       string(mode),
			"count":      res.Count,
			"firstIndex": res.FirstIndex,
		})
	})

	zap.L().Info("starting server", zap.String("addr", cfg.ServerAddr))
	http.ListenAndServe(cfg.ServerAddr, r)
}
