package qdrant

import (
	"context"
	"fmt"

	"github.com/poiesic/policysync/vectorindex"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Index implements vectorindex.Index against a Qdrant collection.
type Index struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	collection string
}

var _ vectorindex.Index = (*Index)(nil)

// NewIndex connects to a Qdrant instance over gRPC.
func NewIndex(host string, port int, collection string) (*Index, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &Index{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		collection: collection,
	}, nil
}

// UpsertVector inserts or overwrites one point. Qdrant upserts by point id,
// which gives the overwrite-in-place semantics the pipeline relies on.
func (x *Index) UpsertVector(ctx context.Context, entry vectorindex.Entry) error {
	if entry.ID == "" {
		return vectorindex.ErrEmptyID
	}
	if len(entry.Vector) == 0 {
		return vectorindex.ErrEmptyVector
	}

	payload := make(map[string]*pb.Value, len(entry.Metadata))
	for k, v := range entry.Metadata {
		payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
	}

	point := &pb.PointStruct{
		Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: entry.ID}},
		Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: entry.Vector}}},
		Payload: payload,
	}

	_, err := x.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: x.collection,
		Points:         []*pb.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert %s: %w", entry.ID, err)
	}
	return nil
}

func (x *Index) Close() error {
	return x.conn.Close()
}
