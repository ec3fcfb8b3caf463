package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/mathacharan30/nutricompare-atme/models"
)

var ErrScanNotFound = errors.New("scan not found")

const maxMemoryScans = 500

// ScanStore keeps completed scans.
type ScanStore interface {
	Save(ctx context.Context, scan *models.Scan) error
	Get(ctx context.Context, id string) (*models.Scan, error)
	Recent(ctx context.Context, limit int) ([]models.Scan, error)
}

type GormScanStore struct {
	DB *gorm.DB
}

func (s *GormScanStore) Save(ctx context.Context, scan *models.Scan) error {
	return s.DB.WithContext(ctx).Create(scan).Error
}

func (s *GormScanStore) Get(ctx context.Context, id string) (*models.Scan, error) {
	var scan models.Scan
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&scan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &scan, nil
}

func (s *GormScanStore) Recent(ctx context.Context, limit int) ([]models.Scan, error) {
	var scans []models.Scan
	err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&scans).Error
	return scans, err
}

// MemoryScanStore keeps the most recent scans in process memory.
type MemoryScanStore struct {
	mu    sync.RWMutex
	scans map[string]models.Scan
	order []string
}

func NewMemoryScanStore() *MemoryScanStore {
	return &MemoryScanStore{scans: make(map[string]models.Scan)}
}

func (s *MemoryScanStore) Save(_ context.Context, scan *models.Scan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scans[scan.ID]; !ok {
		s.order = append(s.order, scan.ID)
	}
	s.scans[scan.ID] = *scan

	for len(s.order) > maxMemoryScans {
		delete(s.scans, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryScanStore) Get(_ context.Context, id string) (*models.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scan, ok := s.scans[id]
	if !ok {
		return nil, ErrScanNotFound
	}
	return &scan, nil
}

func (s *MemoryScanStore) Recent(_ context.Context, limit int) ([]models.Scan, error) {
	s.mu.RLock()
	out := make([]models.Scan, 0, len(s.scans))
	for _, scan := range s.scans {
		out = append(out, scan)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
