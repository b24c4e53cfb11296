// docrank-seed loads a JSON corpus into the chunk store: it creates the
// FT index, embeds every chunk, writes chunk hashes and the owner's
// document metadata list.
//
// Corpus file format:
//
//	{
//	  "owner_id": "acme",
//	  "documents": [
//	    {"id": "d1", "name": "Handbook", "summary": "...", "category": "hr",
//	     "tags": ["policy"], "chunks": ["text one", "text two"]}
//	  ]
//	}
package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/siamtext/docrank/internal/config"
	"github.com/siamtext/docrank/internal/db"
	dbRedis "github.com/siamtext/docrank/internal/db/redis"
	"github.com/siamtext/docrank/internal/domain"
	domdoc "github.com/siamtext/docrank/internal/domain/document"
	logpkg "github.com/siamtext/docrank/internal/logger"
	"github.com/siamtext/docrank/internal/metrics"
	chunkrepo "github.com/siamtext/docrank/internal/repository/chunk"
	documentrepo "github.com/siamtext/docrank/internal/repository/document"
	openaiTransport "github.com/siamtext/docrank/internal/transport/openai"
)

type corpusFile struct {
	OwnerID   string      `json:"owner_id"`
	Documents []corpusDoc `json:"documents"`
}

type corpusDoc struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Summary  string   `json:"summary"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Chunks   []string `json:"chunks"`
}

func main() {
	var (
		file     = flag.String("file", "", "path to the JSON corpus file")
		owner    = flag.String("owner", "", "override the corpus owner_id")
		recreate = flag.Bool("recreate-index", false, "drop and recreate the chunk index")
		workers  = flag.Int("workers", 4, "concurrent embedding requests")
	)
	flag.Parse()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if *file == "" {
		logger.Fatal("usage: docrank-seed -file corpus.json [-owner id] [-recreate-index]")
	}

	corpus, err := readCorpus(*file)
	if err != nil {
		logger.Fatal("Failed to read corpus", zap.Error(err))
	}
	if *owner != "" {
		corpus.OwnerID = *owner
	}
	if corpus.OwnerID == "" {
		logger.Fatal("Corpus owner_id is required")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterSearchMetrics()

	embedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	if err := ensureIndex(ctx, store, cfg.Embedding.Dimensions, *recreate); err != nil {
		logger.Fatal("Failed to create chunk index", zap.Error(err))
	}

	start := time.Now()
	chunkCount, err := seedChunks(ctx, store, embedder, corpus, *workers)
	if err != nil {
		logger.Fatal("Failed to seed chunks", zap.Error(err))
	}

	docs := make([]domdoc.Document, len(corpus.Documents))
	for i, d := range corpus.Documents {
		docs[i] = domdoc.New(d.ID, d.Name, d.Summary, d.Category, d.Tags, time.Now().UTC())
	}
	if err := documentrepo.New(store).PutDocuments(ctx, corpus.OwnerID, docs); err != nil {
		logger.Fatal("Failed to write document metadata", zap.Error(err))
	}

	logger.Info("Corpus seeded",
		zap.String("owner_id", corpus.OwnerID),
		zap.Int("documents", len(corpus.Documents)),
		zap.Int("chunks", chunkCount),
		zap.Duration("took", time.Since(start)),
	)
}

func readCorpus(path string) (*corpusFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var corpus corpusFile
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	if len(corpus.Documents) == 0 {
		return nil, errors.New("corpus has no documents")
	}
	return &corpus, nil
}

func ensureIndex(ctx context.Context, store db.Store, dimensions int, recreate bool) error {
	if recreate {
		if err := store.DropIndex(ctx, domain.ChunkIndexName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return err
		}
	}

	err := store.CreateIndex(ctx, &db.IndexDefinition{
		Name:     domain.ChunkIndexName,
		Prefixes: []string{domain.KeyPrefix + "chunks:"},
		Fields: []db.IndexField{
			{Name: chunkrepo.FieldOwner, Type: db.IndexFieldTag},
			{Name: chunkrepo.FieldDoc, Type: db.IndexFieldTag},
			{Name: chunkrepo.FieldIndex, Type: db.IndexFieldNumeric},
			{
				Name:           chunkrepo.FieldVector,
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorHNSW,
				VectorDim:      dimensions,
				VectorDistance: db.DistanceCosine,
			},
		},
	})
	if errors.Is(err, db.ErrIndexExists) {
		return nil
	}
	return err
}

// seedChunks embeds every chunk with a bounded worker pool and writes
// the hashes in one pipelined batch per document.
func seedChunks(
	ctx context.Context, store db.Store, embedder *openaiTransport.Embedder,
	corpus *corpusFile, workers int,
) (int, error) {
	total := 0
	for _, doc := range corpus.Documents {
		items := make([]db.HashSetItem, len(doc.Chunks))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, content := range doc.Chunks {
			i, content := i, content
			g.Go(func() error {
				emb, err := embedder.Embed(gctx, content)
				if err != nil {
					return fmt.Errorf("embed %s chunk %d: %w", doc.ID, i, err)
				}
				items[i] = db.HashSetItem{
					Key: domain.ChunkKey(corpus.OwnerID, doc.ID, i),
					Fields: map[string]string{
						chunkrepo.FieldContent: content,
						chunkrepo.FieldDoc:     doc.ID,
						chunkrepo.FieldIndex:   strconv.Itoa(i),
						chunkrepo.FieldOwner:   corpus.OwnerID,
						chunkrepo.FieldVector:  vectorToBytes(emb.Embedding),
					},
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return total, err
		}

		if err := store.HSetMulti(ctx, items); err != nil {
			return total, fmt.Errorf("write chunks for %s: %w", doc.ID, err)
		}
		total += len(items)
	}
	return total, nil
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
