package mongodb

import (
	"context"
	"log"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConfigRepo struct {
	col *mongo.Collection
}

func NewMongoConfigRepo(db *mongo.Database) repository.ConfigFileRepository {
	col := db.Collection("config_files")

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "job_id", Value: 1}, bson.E{Key: "name", Value: 1}}},
	})

	return &MongoConfigRepo{
		col: col,
	}
}

// SaveFiles upserts on (job_id, name).
func (r *MongoConfigRepo) SaveFiles(ctx context.Context, files []*entity.ConfigFile) error {
	if len(files) == 0 {
		return nil
	}

	metrics.IncDBFileOp("put")

	for _, f := range files {
		filter := bson.M{"job_id": f.JobID, "name": f.Name}
		_, err := r.col.ReplaceOne(ctx, filter, f, options.Replace().SetUpsert(true))
		if err != nil {
			metrics.IncError("mongo_config_repo", "save_error")
			return err
		}
	}
	return nil
}

func (r *MongoConfigRepo) GetFilesByJobID(ctx context.Context, jobID string) ([]*entity.ConfigFile, error) {
	metrics.IncDBFileOp("get")

	files, err := r.findFiles(ctx, bson.M{"job_id": jobID})
	if err != nil {
		metrics.IncError("mongo_config_repo", "get_by_jobid_error")
		return nil, err
	}
	return files, nil
}

func (r *MongoConfigRepo) ListJobIDs(ctx context.Context) ([]string, error) {
	metrics.IncDBFileOp("list")

	values, err := r.col.Distinct(ctx, "job_id", bson.D{})
	if err != nil {
		metrics.IncError("mongo_config_repo", "list_error")
		return nil, err
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

func (r *MongoConfigRepo) DeleteByJobID(ctx context.Context, jobID string) error {
	metrics.IncDBFileOp("delete")

	_, err := r.col.DeleteMany(ctx, bson.M{"job_id": jobID})
	if err != nil {
		metrics.IncError("mongo_config_repo", "delete_error")
		return err
	}
	return nil
}

func (r *MongoConfigRepo) findFiles(ctx context.Context, filter bson.M) ([]*entity.ConfigFile, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		err := cur.Close(ctx)
		if err != nil {
			log.Printf("close cursor err: %s", err)
		}
	}()

	result := []*entity.ConfigFile{}
	for cur.Next(ctx) {
		var doc entity.ConfigFile
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, &doc)
	}
	return result, cur.Err()
}
