package mongodb

import (
	"context"
	"errors"
	"log"
	"time"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoJobRepo struct {
	jobsCol *mongo.Collection
}

func NewMongoJobRepo(db *mongo.Database) repository.JobRepository {
	col := db.Collection("jobs")

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{bson.E{Key: "status", Value: 1}, bson.E{Key: "created_at", Value: 1}}},
	})

	return &MongoJobRepo{
		jobsCol: col,
	}
}

func (r *MongoJobRepo) Create(ctx context.Context, job *entity.Job) error {
	metrics.IncJobsCreated()

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if _, err := r.jobsCol.InsertOne(ctx, job); err != nil {
		metrics.IncError("mongo_job_repo", "create_error")
		return err
	}
	return nil
}

func (r *MongoJobRepo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	metrics.IncDBFileOp("get")

	var job entity.Job
	err := r.jobsCol.FindOne(ctx, bson.M{"id": id}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrJobNotFound
		}
		metrics.IncError("mongo_job_repo", "get_error")
		return nil, err
	}
	return &job, nil
}

func (r *MongoJobRepo) List(ctx context.Context) ([]*entity.Job, error) {
	metrics.IncDBFileOp("list")
	return r.findJobs(ctx, bson.D{}, "list")
}

func (r *MongoJobRepo) ListByStatus(ctx context.Context, status entity.JobStatus) ([]*entity.Job, error) {
	metrics.IncDBFileOp("list")
	return r.findJobs(ctx, bson.M{"status": status}, "list_by_status")
}

func (r *MongoJobRepo) Update(ctx context.Context, job *entity.Job) error {
	metrics.IncDBFileOp("put")

	job.UpdatedAt = time.Now()
	res, err := r.jobsCol.ReplaceOne(ctx, bson.M{"id": job.ID}, job)
	if err != nil {
		metrics.IncError("mongo_job_repo", "update_error")
		return err
	}
	if res.MatchedCount == 0 {
		return entity.ErrJobNotFound
	}
	return nil
}

func (r *MongoJobRepo) UpdateStatus(ctx context.Context, id string, status entity.JobStatus) error {
	metrics.IncDBFileOp("put")

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}
	res, err := r.jobsCol.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		metrics.IncError("mongo_job_repo", "update_status_error")
		return err
	}
	if res.MatchedCount == 0 {
		return entity.ErrJobNotFound
	}
	return nil
}

func (r *MongoJobRepo) Delete(ctx context.Context, id string) error {
	metrics.IncDBFileOp("delete")

	res, err := r.jobsCol.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		metrics.IncError("mongo_job_repo", "delete_error")
		return err
	}
	if res.DeletedCount == 0 {
		return entity.ErrJobNotFound
	}
	return nil
}

func (r *MongoJobRepo) CountByStatus(ctx context.Context, status entity.JobStatus) (int, error) {
	metrics.IncDBFileOp("count")

	count, err := r.jobsCol.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		metrics.IncError("mongo_job_repo", "count_by_status_error")
		return 0, err
	}
	return int(count), nil
}

// findJobs returns matching jobs oldest first. op labels error metrics.
func (r *MongoJobRepo) findJobs(ctx context.Context, filter interface{}, op string) ([]*entity.Job, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "created_at", Value: 1}})
	cur, err := r.jobsCol.Find(ctx, filter, opts)
	if err != nil {
		metrics.IncError("mongo_job_repo", op+"_error")
		return nil, err
	}
	defer func() {
		if err := cur.Close(ctx); err != nil {
			log.Printf("close cursor err: %s", err)
		}
	}()

	jobs := []*entity.Job{}
	for cur.Next(ctx) {
		var j entity.Job
		if err := cur.Decode(&j); err != nil {
			metrics.IncError("mongo_job_repo", op+"_decode_error")
			return nil, err
		}
		jobs = append(jobs, &j)
	}
	if err := cur.Err(); err != nil {
		metrics.IncError("mongo_job_repo", op+"_cursor_error")
		return nil, err
	}
	return jobs, nil
}
