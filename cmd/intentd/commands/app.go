package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/config"
	"github.com/kailas-cloud/intentd/internal/dataset"
	"github.com/kailas-cloud/intentd/internal/db"
	dbRedis "github.com/kailas-cloud/intentd/internal/db/redis"
	"github.com/kailas-cloud/intentd/internal/domain"
	"github.com/kailas-cloud/intentd/internal/domain/registry"
	logpkg "github.com/kailas-cloud/intentd/internal/logger"
	"github.com/kailas-cloud/intentd/internal/metrics"
	"github.com/kailas-cloud/intentd/internal/model/softmax"
	"github.com/kailas-cloud/intentd/internal/nlp"
	"github.com/kailas-cloud/intentd/internal/repository/modelstore"
	"github.com/kailas-cloud/intentd/internal/repository/wordvec"
	openaiVec "github.com/kailas-cloud/intentd/internal/transport/openai"
	"github.com/kailas-cloud/intentd/internal/usecase/classify"
	"github.com/kailas-cloud/intentd/internal/usecase/encoder"
)

// app holds what every command shares: config, logger and the optional KV store.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  db.Store
}

// snapshotStore saves and loads serialized models.
type snapshotStore interface {
	Save(ctx context.Context, data []byte) (string, error)
	modelstore.Loader
}

func setup(ctx context.Context) (*app, error) {
	env := envName
	if env == "" {
		env = config.GetEnv()
	}

	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{env: env, cfg: cfg, logger: logger}
	if cfg.Database.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create database store: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database",
			zap.String("db_driver", cfg.Database.Driver),
			zap.Strings("db_addrs", cfg.Database.Addrs),
		)
		a.store = store
	}
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

// registry builds the tag registry from the configured datasets.
func (a *app) registry() (*registry.Registry, error) {
	datasets, err := dataset.LoadAll(a.cfg.Datasets)
	if err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}
	reg := registry.New(datasets...)
	if reg.Len() == 0 {
		return nil, fmt.Errorf("no tags in %v: %w", a.cfg.Datasets, domain.ErrEmptyDataset)
	}
	a.logger.Info("Tag registry loaded", zap.Int("tags", reg.Len()), zap.Strings("datasets", a.cfg.Datasets))
	return reg, nil
}

// vectors assembles the word vector chain: file or OpenAI, then the KV cache.
func (a *app) vectors() (domain.WordVectorSource, error) {
	wc := a.cfg.WordVec

	var src domain.WordVectorSource
	switch wc.Source {
	case "file":
		tbl, err := wordvec.LoadFile(wc.Path)
		if err != nil {
			return nil, fmt.Errorf("load word vectors: %w", err)
		}
		a.logger.Info("Word vectors loaded",
			zap.String("path", wc.Path),
			zap.Int("words", tbl.Len()),
			zap.Int("dimensions", tbl.Dimensions()),
		)
		src = tbl
	case "openai":
		src = openaiVec.NewVectorSource(&openaiVec.Config{
			APIKey:     wc.OpenAI.APIKey,
			BaseURL:    wc.OpenAI.BaseURL,
			Model:      wc.OpenAI.Model,
			Dimensions: wc.OpenAI.Dimensions,
			Provider:   wc.OpenAI.Provider,
			Logger:     a.logger,
		})
		a.logger.Info("Using remote word vectors",
			zap.String("provider", wc.OpenAI.Provider),
			zap.String("model", wc.OpenAI.Model),
			zap.Int("dimensions", wc.OpenAI.Dimensions),
		)
	default:
		return nil, fmt.Errorf("unknown word vector source %q", wc.Source)
	}

	if wc.Cache && a.store != nil {
		namespace := wc.Source + ":" + wc.Path
		if wc.Source == "openai" {
			namespace = wc.Source + ":" + wc.OpenAI.Model
		}
		src = wordvec.NewCached(src, a.store, namespace, metrics.WordVectorCacheTotal, a.logger)
	}
	return src, nil
}

func (a *app) snapshots() (snapshotStore, error) {
	switch a.cfg.Model.Store {
	case "file":
		return modelstore.NewFileStore(a.cfg.Model.Dir), nil
	case "kv":
		if a.store == nil {
			return nil, errors.New("model store \"kv\" requires a database")
		}
		return modelstore.NewKVStore(a.store), nil
	default:
		return nil, fmt.Errorf("unknown model store %q", a.cfg.Model.Store)
	}
}

func (a *app) maxTokens() int {
	if a.cfg.Encoder.MaxTokenLength > 0 {
		return a.cfg.Encoder.MaxTokenLength
	}
	return domain.DefaultMaxTokenLength
}

// classifier restores the latest (or configured) snapshot and wires live inference.
func (a *app) classifier(ctx context.Context) (*classify.Service, domain.WordVectorSource, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, nil, err
	}
	vectors, err := a.vectors()
	if err != nil {
		return nil, nil, err
	}
	snaps, err := a.snapshots()
	if err != nil {
		return nil, nil, err
	}

	model := softmax.New(softmax.Options{})
	ref, err := modelstore.Restore(ctx, snaps, a.cfg.Model.Ref, model, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("restore model: %w", err)
	}
	a.logger.Info("Model restored",
		zap.String("model_ref", ref),
		zap.Time("trained_at", model.TrainedAt()),
		zap.Int("max_token_length", model.MaxTokens()),
	)
	if mt := model.MaxTokens(); mt != 0 && mt != a.maxTokens() {
		a.logger.Warn("Model was trained with a different max token length",
			zap.Int("model", mt), zap.Int("config", a.maxTokens()))
	}

	enc := encoder.New(nlp.New(), vectors)
	return classify.New(enc, model, reg, a.maxTokens()), vectors, nil
}
