// Package qdrant provides a VectorIndex backed by a Qdrant server over gRPC.
//
// Each index owns an ephemeral collection named after the configured
// prefix plus a random suffix. The collection is dropped on Close, so
// nothing outlives the process that built it.
package qdrant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// Default configuration values.
const (
	DefaultURL        = "localhost:6334"
	DefaultCollection = "docqa"
	DefaultTimeout    = 10 * time.Second

	payloadChunkID = "chunk_id"
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// URL is the gRPC address (default: localhost:6334).
	URL string

	// Collection is the collection name prefix (default: docqa).
	Collection string

	// Dimensions is the vector size the collection is created with.
	Dimensions int

	// Timeout bounds each RPC (default: 10s).
	Timeout time.Duration
}

// VectorIndex stores chunk vectors in a Qdrant collection. Only the chunk ID
// is written to the point payload.
type VectorIndex struct {
	collections pb.CollectionsClient
	points      pb.PointsClient
	conn        interface{ Close() error }

	name       string
	dimensions int
	timeout    time.Duration

	mu     sync.Mutex
	nextID uint64
	ids    map[string]uint64
	closed bool
}

// NewVectorIndex dials Qdrant and creates a fresh cosine collection.
func NewVectorIndex(ctx context.Context, cfg Config) (*VectorIndex, error) {
	target := grpcTarget(cfg.URL)

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect %s: %w", target, err)
	}

	idx, err := newVectorIndex(ctx, cfg, pb.NewCollectionsClient(conn), pb.NewPointsClient(conn), conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return idx, nil
}

// Ping checks that a Qdrant server answers health checks at url.
func Ping(ctx context.Context, url string) error {
	target := grpcTarget(url)

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("qdrant: connect %s: %w", target, err)
	}
	defer conn.Close()

	if _, err := pb.NewQdrantClient(conn).HealthCheck(ctx, &pb.HealthCheckRequest{}); err != nil {
		return fmt.Errorf("qdrant: health check %s: %w", target, err)
	}
	return nil
}

func newVectorIndex(ctx context.Context, cfg Config, collections pb.CollectionsClient, points pb.PointsClient, conn interface{ Close() error }) (*VectorIndex, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: invalid vector size %d", cfg.Dimensions)
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	v := &VectorIndex{
		collections: collections,
		points:      points,
		conn:        conn,
		name:        cfg.Collection + "-" + uuid.NewString()[:8],
		dimensions:  cfg.Dimensions,
		timeout:     cfg.Timeout,
		ids:         make(map[string]uint64),
	}

	rpcCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	_, err := collections.Create(rpcCtx, &pb.CreateCollection{
		CollectionName: v.name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(cfg.Dimensions),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: create collection %s: %w", v.name, err)
	}

	logger.Debug("qdrant: created collection %s (%d dims)", v.name, cfg.Dimensions)
	return v, nil
}

// Collection returns the name of the ephemeral collection.
func (v *VectorIndex) Collection() string {
	return v.name
}

// Add upserts one point. Re-adding a chunk ID overwrites its vector.
func (v *VectorIndex) Add(ctx context.Context, chunkID string, embedding []float32) error {
	if len(embedding) != v.dimensions {
		return fmt.Errorf("qdrant: vector has %d dimensions, want %d", len(embedding), v.dimensions)
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return fmt.Errorf("qdrant: index closed")
	}
	id, ok := v.ids[chunkID]
	if !ok {
		v.nextID++
		id = v.nextID
	}
	v.mu.Unlock()

	rpcCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	wait := true
	_, err := v.points.Upsert(rpcCtx, &pb.UpsertPoints{
		CollectionName: v.name,
		Wait:           &wait,
		Points: []*pb.PointStruct{{
			Id: &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: id}},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: embedding}},
			},
			Payload: map[string]*pb.Value{
				payloadChunkID: {Kind: &pb.Value_StringValue{StringValue: chunkID}},
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert %s: %w", chunkID, err)
	}

	v.mu.Lock()
	v.ids[chunkID] = id
	v.mu.Unlock()
	return nil
}

// Search returns up to k hits ordered by Qdrant's cosine score.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || v.Len() == 0 {
		return nil, nil
	}

	rpcCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := v.points.Search(rpcCtx, &pb.SearchPoints{
		CollectionName: v.name,
		Vector:         query,
		Limit:          uint64(k),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Include{
				Include: &pb.PayloadIncludeSelector{Fields: []string{payloadChunkID}},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		val, ok := point.GetPayload()[payloadChunkID]
		if !ok {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    val.GetStringValue(),
			Similarity: float64(point.GetScore()),
		})
	}
	return hits, nil
}

// Len returns the number of distinct chunk IDs added.
func (v *VectorIndex) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.ids)
}

// Close drops the collection and closes the connection. It is idempotent.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	_, err := v.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: v.name})
	if err != nil {
		err = fmt.Errorf("qdrant: delete collection %s: %w", v.name, err)
	} else {
		logger.Debug("qdrant: deleted collection %s", v.name)
	}

	if v.conn != nil {
		if cerr := v.conn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("qdrant: close connection: %w", cerr)
		}
	}
	return err
}

func grpcTarget(url string) string {
	if url == "" {
		return DefaultURL
	}
	return strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "grpc://")
}
