package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// BlobStore is a small opaque key/value surface. The gorm-backed
// implementation is the real one; tests swap in an in-memory map.
type BlobStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// GormBlobStore persists blobs in the kv_records table.
type GormBlobStore struct {
	db *gorm.DB
}

func NewGormBlobStore(db *gorm.DB) *GormBlobStore {
	return &GormBlobStore{db: db}
}

func (s *GormBlobStore) Get(key string) (string, bool, error) {
	var rec models.KVRecord
	err := s.db.Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load kv %q: %w", key, err)
	}
	return rec.Value, true, nil
}

func (s *GormBlobStore) Set(key, value string) error {
	rec := models.KVRecord{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save kv %q: %w", key, err)
	}
	return nil
}

func (s *GormBlobStore) Delete(key string) error {
	if err := s.db.Where("key = ?", key).Delete(&models.KVRecord{}).Error; err != nil {
		return fmt.Errorf("delete kv %q: %w", key, err)
	}
	return nil
}

// MemoryBlobStore is the test double for BlobStore.
type MemoryBlobStore struct {
	Data map[string]string
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{Data: map[string]string{}}
}

func (s *MemoryBlobStore) Get(key string) (string, bool, error) {
	v, ok := s.Data[key]
	return v, ok, nil
}

func (s *MemoryBlobStore) Set(key, value string) error {
	s.Data[key] = value
	return nil
}

func (s *MemoryBlobStore) Delete(key string) error {
	delete(s.Data, key)
	return nil
}

// Per-user blob keys. Streak state and the unlock allow-list are stored as
// JSON blobs rather than relational rows so partial writes cannot leave a
// half-updated streak behind.
func streakKey(userID uint) string {
	return fmt.Sprintf("food_photo_streak:%d", userID)
}

func unlockedKey(userID uint) string {
	return fmt.Sprintf("unlocked_achievements:%d", userID)
}

// StreakRepository loads and saves per-user photo streak state. A corrupt
// blob degrades to zero-value state instead of failing the request.
type StreakRepository struct {
	store BlobStore
}

func NewStreakRepository(store BlobStore) *StreakRepository {
	return &StreakRepository{store: store}
}

func (r *StreakRepository) Load(userID uint) (models.FoodPhotoStreakData, error) {
	var data models.FoodPhotoStreakData
	raw, ok, err := r.store.Get(streakKey(userID))
	if err != nil {
		return data, err
	}
	if !ok {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Printf("corrupt streak blob for user %d, resetting: %v", userID, err)
		return models.FoodPhotoStreakData{}, nil
	}
	if data.StreakDays == nil {
		data.StreakDays = []string{}
	}
	return data, nil
}

func (r *StreakRepository) Save(userID uint, data models.FoodPhotoStreakData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal streak data: %w", err)
	}
	return r.store.Set(streakKey(userID), string(raw))
}

// UnlockedRepository keeps the per-user set of legitimately unlocked
// achievement ids. This set is the allow-list the achievement engine and the
// streak service consult before showing an unlock.
type UnlockedRepository struct {
	store BlobStore
}

func NewUnlockedRepository(store BlobStore) *UnlockedRepository {
	return &UnlockedRepository{store: store}
}

func (r *UnlockedRepository) Load(userID uint) (map[string]bool, error) {
	raw, ok, err := r.store.Get(unlockedKey(userID))
	if err != nil {
		return nil, err
	}
	set := map[string]bool{}
	if !ok {
		return set, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("corrupt unlocked blob for user %d, resetting: %v", userID, err)
		return map[string]bool{}, nil
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *UnlockedRepository) Save(userID uint, set map[string]bool) error {
	ids := make([]string, 0, len(set))
	for id, on := range set {
		if on {
			ids = append(ids, id)
		}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal unlocked ids: %w", err)
	}
	return r.store.Set(unlockedKey(userID), string(raw))
}
