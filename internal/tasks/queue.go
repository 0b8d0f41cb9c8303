package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"studyforge_go_backend/internal/config"
	"studyforge_go_backend/pkg/logger"
)

const TaskTypeExtraction = "extraction:process"

// ExtractionTask identifies a document whose text needs extracting.
type ExtractionTask struct {
	DocumentID uint `json:"document_id"`
}

// Processor handles one extraction task.
type Processor func(ctx context.Context, task *ExtractionTask) error

// Queue dispatches extraction jobs. The async implementation is backed by
// Redis; the sync implementation runs jobs in-process so the server works
// without Redis at all.
type Queue interface {
	Enqueue(task *ExtractionTask) error
	IsAsync() bool
	Close() error
}

// NewQueue picks the queue implementation from config. Redis being
// unreachable is not fatal: we log and fall back to in-process dispatch.
func NewQueue(cfg *config.RedisConfig) Queue {
	if !cfg.Enabled {
		logger.Infof("[TaskQueue] Running in-process (Redis disabled)")
		return NewSyncQueue()
	}
	queue, err := NewAsyncQueue(cfg)
	if err != nil {
		logger.Warnf("[TaskQueue] Redis unavailable, falling back to in-process mode: %v", err)
		return NewSyncQueue()
	}
	logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Addr)
	return queue
}

// AsyncQueue enqueues extraction jobs onto Redis via asynq.
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection up front so we can fall back cleanly.
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func (q *AsyncQueue) Enqueue(task *ExtractionTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	info, err := q.client.Enqueue(
		asynq.NewTask(TaskTypeExtraction, payload),
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Infof("[TaskQueue] Task enqueued: id=%s, document=%d", info.ID, task.DocumentID)
	return nil
}

func (q *AsyncQueue) IsAsync() bool { return true }

func (q *AsyncQueue) Close() error { return q.client.Close() }

// SyncQueue runs extraction jobs in a goroutine in the current process, so
// the upload response never blocks on OCR.
type SyncQueue struct {
	processor Processor
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

func (q *SyncQueue) SetProcessor(processor Processor) {
	q.processor = processor
}

func (q *SyncQueue) Enqueue(task *ExtractionTask) error {
	if q.processor == nil {
		logger.Warnf("[TaskQueue] No processor set, task for document %d dropped", task.DocumentID)
		return nil
	}

	go func() {
		if err := q.processor(context.Background(), task); err != nil {
			logger.Errorf("[TaskQueue] Task for document %d failed: %v", task.DocumentID, err)
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }
