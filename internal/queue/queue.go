package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	QueueRender = "render_queue"
	QueueUpload = "upload_queue"
)

type Queue struct {
	client *redis.Client
}

// RenderJob asks the worker to script and render one video project.
type RenderJob struct {
	ProjectID uuid.UUID `json:"project_id"`
	Provider  string    `json:"provider,omitempty"` // "openai" (default) or "gemini"
	IsManual  bool      `json:"is_manual,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadJob asks the worker to publish one scheduled post.
type UploadJob struct {
	PostID    uuid.UUID `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func New(redisURL string) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Queue{client: client}, nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

// EnqueueRender pushes a render job onto the render queue.
func (q *Queue) EnqueueRender(ctx context.Context, projectID uuid.UUID, provider string, isManual bool) error {
	job := RenderJob{
		ProjectID: projectID,
		Provider:  provider,
		IsManual:  isManual,
		CreatedAt: time.Now(),
	}
	return q.push(ctx, QueueRender, job)
}

// EnqueueUpload pushes an upload job onto the upload queue.
func (q *Queue) EnqueueUpload(ctx context.Context, postID uuid.UUID) error {
	job := UploadJob{
		PostID:    postID,
		CreatedAt: time.Now(),
	}
	return q.push(ctx, QueueUpload, job)
}

// DequeueRender pops the next render job, blocking up to timeout.
// Returns (nil, nil) when no job is available.
func (q *Queue) DequeueRender(ctx context.Context, timeout time.Duration) (*RenderJob, error) {
	var job RenderJob
	ok, err := q.pop(ctx, QueueRender, timeout, &job)
	if err != nil || !ok {
		return nil, err
	}
	return &job, nil
}

// DequeueUpload pops the next upload job, blocking up to timeout.
// Returns (nil, nil) when no job is available.
func (q *Queue) DequeueUpload(ctx context.Context, timeout time.Duration) (*UploadJob, error) {
	var job UploadJob
	ok, err := q.pop(ctx, QueueUpload, timeout, &job)
	if err != nil || !ok {
		return nil, err
	}
	return &job, nil
}

func (q *Queue) GetQueueLength(ctx context.Context, queueName string) (int64, error) {
	return q.client.LLen(ctx, queueName).Result()
}

func (q *Queue) push(ctx context.Context, queueName string, job interface{}) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return q.client.RPush(ctx, queueName, data).Err()
}

func (q *Queue) pop(ctx context.Context, queueName string, timeout time.Duration, job interface{}) (bool, error) {
	result, err := q.client.BLPop(ctx, timeout, queueName).Result()
	if err == redis.Nil {
		return false, nil // No job available
	}
	if err != nil {
		return false, fmt.Errorf("failed to dequeue: %w", err)
	}

	if len(result) != 2 {
		return false, fmt.Errorf("unexpected redis response")
	}

	if err := json.Unmarshal([]byte(result[1]), job); err != nil {
		return false, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return true, nil
}
