package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/models"
	"github.com/mathacharan30/nutricompare-atme/utils"
)

const (
	chatTimeout     = 15 * time.Second
	maxChatQueryLen = 2000
)

// ChatClient answers a free-text nutrition question.
type ChatClient interface {
	Ask(ctx context.Context, query string) (string, error)
}

// ChatbotClient calls the external chat endpoint at {baseURL}/chat.
type ChatbotClient struct {
	baseURL string
	client  *http.Client
}

func NewChatbotClient(baseURL string) *ChatbotClient {
	return &ChatbotClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: chatTimeout},
	}
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Summary string `json:"summary"`
}

func (c *ChatbotClient) Ask(ctx context.Context, query string) (string, error) {
	b, err := json.Marshal(chatRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("chatbot: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("chatbot: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatbot: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("chatbot: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chatbot: API returned %d: %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("chatbot: parse response: %w", err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return "", errors.New("chatbot: empty summary")
	}
	return out.Summary, nil
}

// SessionStart is returned when a chat session opens.
type SessionStart struct {
	Session models.ChatSession `json:"session"`
	Token   string             `json:"token"`
	Welcome models.ChatMessage `json:"welcome"`
}

// ChatService runs chat sessions against the remote bot with a local
// canned-answer fallback.
type ChatService struct {
	Remote       ChatClient
	Store        ChatStore
	Presentation *config.Presentation
	Secret       []byte
	Now          func() time.Time
}

func NewChatService(remote ChatClient, store ChatStore, pres *config.Presentation, secret []byte) *ChatService {
	return &ChatService{
		Remote:       remote,
		Store:        store,
		Presentation: pres,
		Secret:       secret,
		Now:          time.Now,
	}
}

func (s *ChatService) StartSession(ctx context.Context, localeTag string) (*SessionStart, error) {
	now := s.Now().UTC()
	locale := s.Presentation.Locale(localeTag)

	sess := models.ChatSession{ID: uuid.NewString(), Locale: locale.Code, CreatedAt: now}
	if err := s.Store.CreateSession(ctx, &sess); err != nil {
		return nil, apperrors.NewDatabaseError(fmt.Errorf("create chat session: %w", err))
	}

	token, err := utils.IssueSessionToken(s.Secret, sess.ID, now)
	if err != nil {
		return nil, apperrors.ErrInternalServer.WithError(fmt.Errorf("sign session token: %w", err))
	}

	welcome := models.ChatMessage{
		SessionID: sess.ID,
		Role:      models.RoleBot,
		Text:      locale.Text("chat_welcome"),
		Source:    models.ReplyWelcome,
		CreatedAt: now,
	}
	if err := s.Store.AppendMessage(ctx, &welcome); err != nil {
		return nil, apperrors.NewDatabaseError(fmt.Errorf("store welcome: %w", err))
	}

	slog.Info("chat session started", "session_id", sess.ID, "locale", sess.Locale)
	return &SessionStart{Session: sess, Token: token, Welcome: welcome}, nil
}

// Send records the user's message and returns the bot reply. A failing
// remote bot never surfaces as an error; the reply falls back to canned text.
func (s *ChatService) Send(ctx context.Context, sessionID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("message", "message is required")
	}
	if utf8.RuneCountInString(text) > maxChatQueryLen {
		return nil, apperrors.NewValidationError("message", fmt.Sprintf("message must be at most %d characters", maxChatQueryLen))
	}

	if _, err := s.openSession(ctx, sessionID); err != nil {
		return nil, err
	}

	userMsg := models.ChatMessage{
		SessionID: sessionID,
		Role:      models.RoleUser,
		Text:      text,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Store.AppendMessage(ctx, &userMsg); err != nil {
		return nil, apperrors.NewDatabaseError(fmt.Errorf("store message: %w", err))
	}

	reply := models.ChatMessage{SessionID: sessionID, Role: models.RoleBot}
	answer, err := s.Remote.Ask(ctx, text)
	if err != nil {
		slog.Warn("chatbot unavailable, using fallback", "session_id", sessionID, "error", err)
		reply.Text = FallbackReply(text)
		reply.Source = models.ReplyFallback
	} else {
		reply.Text = answer
		reply.Source = models.ReplyRemote
	}
	reply.CreatedAt = s.Now().UTC()

	if err := s.Store.AppendMessage(ctx, &reply); err != nil {
		return nil, apperrors.NewDatabaseError(fmt.Errorf("store reply: %w", err))
	}
	return &reply, nil
}

func (s *ChatService) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if _, err := s.session(ctx, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.Store.Messages(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return msgs, nil
}

// EndSession is idempotent.
func (s *ChatService) EndSession(ctx context.Context, sessionID string) error {
	err := s.Store.EndSession(ctx, sessionID, s.Now().UTC())
	if errors.Is(err, ErrChatSessionNotFound) {
		return apperrors.ErrChatSessionMissing
	}
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *ChatService) session(ctx context.Context, id string) (*models.ChatSession, error) {
	sess, err := s.Store.GetSession(ctx, id)
	if errors.Is(err, ErrChatSessionNotFound) {
		return nil, apperrors.ErrChatSessionMissing
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return sess, nil
}

func (s *ChatService) openSession(ctx context.Context, id string) (*models.ChatSession, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.EndedAt != nil {
		return nil, apperrors.ErrSessionEnded
	}
	return sess, nil
}
