// Package store provides the key/value persistence contract for quiz
// results and assignment submissions. Callers depend on the KV
// interface, never on a concrete backend, so a Redis instance, an
// in-memory map, or anything else honoring get/set/remove can sit
// behind it.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// KV is the minimal key/value contract the record stores are built on.
// Get reports a miss through the second return, not through an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// QuizResultKey identifies one user's result for one quiz in one
// course.
type QuizResultKey struct {
	QuizID   uint
	UserID   uint
	CourseID uint
}

func (k QuizResultKey) String() string {
	return fmt.Sprintf("quiz:result:%d:%d:%d", k.CourseID, k.QuizID, k.UserID)
}

// QuizResultRecord is the persisted outcome of a quiz attempt. Score is
// stored at full precision; display rounding happens at the edge.
type QuizResultRecord struct {
	Score       float64     `json:"score"`
	Answers     map[int]int `json:"answers"`
	SubmittedAt time.Time   `json:"submittedAt"`
}

// SubmissionKey identifies a student's current submission for an
// assignment. There is at most one record per key; resubmission
// overwrites it.
type SubmissionKey struct {
	AssignmentID uint
	UserID       uint
}

func (k SubmissionKey) String() string {
	return fmt.Sprintf("assignment:submission:%d:%d", k.AssignmentID, k.UserID)
}

// SubmissionRecord is the persisted view of an assignment submission.
// FileKey is an opaque handle into the storage provider.
type SubmissionRecord struct {
	FileKey     string    `json:"fileKey"`
	FileName    string    `json:"fileName"`
	SubmittedAt time.Time `json:"submittedAt"`
	Late        bool      `json:"late"`
}

// ResultStore reads and writes quiz results through a KV backend.
type ResultStore struct {
	kv KV
}

func NewResultStore(kv KV) *ResultStore {
	return &ResultStore{kv: kv}
}

func (s *ResultStore) Save(ctx context.Context, key QuizResultKey, record QuizResultRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key.String(), raw)
}

// Load returns nil with no error when no result exists for the key.
func (s *ResultStore) Load(ctx context.Context, key QuizResultKey) (*QuizResultRecord, error) {
	raw, ok, err := s.kv.Get(ctx, key.String())
	if err != nil || !ok {
		return nil, err
	}
	var record QuizResultRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *ResultStore) Remove(ctx context.Context, key QuizResultKey) error {
	return s.kv.Remove(ctx, key.String())
}

// SubmissionStore reads and writes assignment submissions through a KV
// backend.
type SubmissionStore struct {
	kv KV
}

func NewSubmissionStore(kv KV) *SubmissionStore {
	return &SubmissionStore{kv: kv}
}

func (s *SubmissionStore) Save(ctx context.Context, key SubmissionKey, record SubmissionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key.String(), raw)
}

// Load returns nil with no error when no submission exists for the key.
func (s *SubmissionStore) Load(ctx context.Context, key SubmissionKey) (*SubmissionRecord, error) {
	raw, ok, err := s.kv.Get(ctx, key.String())
	if err != nil || !ok {
		return nil, err
	}
	var record SubmissionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *SubmissionStore) Remove(ctx context.Context, key SubmissionKey) error {
	return s.kv.Remove(ctx, key.String())
}
