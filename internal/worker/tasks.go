package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskGenerateDeck = "deck:generate"
)

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueGenerateDeck enqueues a deck generation task for the given job ID.
// The task is processed with a 5-minute timeout, retried up to 3 times, and
// retained for 24 hours after completion.
func EnqueueGenerateDeck(jobID uint) error {
	payload, err := json.Marshal(map[string]uint{
		"job_id": jobID,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		TaskGenerateDeck,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
	)

	_, err = client.Enqueue(task)
	return err
}
