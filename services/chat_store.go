package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mathacharan30/nutricompare-atme/models"
)

var ErrChatSessionNotFound = errors.New("chat session not found")

// ChatStore keeps chat sessions and their transcripts.
type ChatStore interface {
	CreateSession(ctx context.Context, s *models.ChatSession) error
	GetSession(ctx context.Context, id string) (*models.ChatSession, error)
	EndSession(ctx context.Context, id string, at time.Time) error
	AppendMessage(ctx context.Context, m *models.ChatMessage) error
	Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}

type GormChatStore struct {
	DB *gorm.DB
}

func (s *GormChatStore) CreateSession(ctx context.Context, sess *models.ChatSession) error {
	return s.DB.WithContext(ctx).Create(sess).Error
}

func (s *GormChatStore) GetSession(ctx context.Context, id string) (*models.ChatSession, error) {
	var sess models.ChatSession
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// EndSession sets ended_at once; later calls keep the first timestamp.
func (s *GormChatStore) EndSession(ctx context.Context, id string, at time.Time) error {
	res := s.DB.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ? AND ended_at IS NULL", id).
		Update("ended_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetSession(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *GormChatStore) AppendMessage(ctx context.Context, m *models.ChatMessage) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *GormChatStore) Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

type MemoryChatStore struct {
	mu       sync.RWMutex
	sessions map[string]models.ChatSession
	messages map[string][]models.ChatMessage
	nextID   uint
}

func NewMemoryChatStore() *MemoryChatStore {
	return &MemoryChatStore{
		sessions: make(map[string]models.ChatSession),
		messages: make(map[string][]models.ChatMessage),
	}
}

func (s *MemoryChatStore) CreateSession(_ context.Context, sess *models.ChatSession) error {
	s.mu.Lock()
	s.sessions[sess.ID] = *sess
	s.mu.Unlock()
	return nil
}

func (s *MemoryChatStore) GetSession(_ context.Context, id string) (*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrChatSessionNotFound
	}
	return &sess, nil
}

func (s *MemoryChatStore) EndSession(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrChatSessionNotFound
	}
	if sess.EndedAt == nil {
		sess.EndedAt = &at
		s.sessions[id] = sess
	}
	return nil
}

func (s *MemoryChatStore) AppendMessage(_ context.Context, m *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[m.SessionID]; !ok {
		return ErrChatSessionNotFound
	}
	s.nextID++
	m.ID = s.nextID
	s.messages[m.SessionID] = append(s.messages[m.SessionID], *m)
	return nil
}

func (s *MemoryChatStore) Messages(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ChatMessage, len(s.messages[sessionID]))
	copy(out, s.messages[sessionID])
	return out, nil
}
