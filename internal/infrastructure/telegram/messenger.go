package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TechBriefing/internal/ports"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	maxTextRunes   = 4096
	maxCaption     = 1024
)

// ErrMisconfigured is returned when the bot token or chat id is missing.
var ErrMisconfigured = errors.New("telegram messenger misconfigured")

// Messenger sends briefings to a Telegram chat via bot API.
type Messenger struct {
	baseURL  string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Messenger = (*Messenger)(nil)

// NewMessenger registers bot token and chat identifier.
func NewMessenger(baseURL, botToken, chatID string, timeout time.Duration) *Messenger {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Messenger{
		baseURL:  strings.TrimRight(baseURL, "/"),
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: timeout},
	}
}

// SendText posts a plain message to the chat.
func (m *Messenger) SendText(ctx context.Context, text string) error {
	if err := m.check(); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("chat_id", m.chatID)
	form.Set("text", truncate(text, maxTextRunes))
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint("sendMessage"), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return m.do(req)
}

// SendAudio uploads an audio file with its metadata.
func (m *Messenger) SendAudio(ctx context.Context, audio ports.Audio) error {
	if err := m.check(); err != nil {
		return err
	}
	if len(audio.Data) == 0 {
		return errors.New("telegram: empty audio")
	}

	fileName := audio.FileName
	if fileName == "" {
		fileName = "briefing.mp3"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := [][2]string{
		{"chat_id", m.chatID},
		{"title", audio.Title},
		{"performer", audio.Performer},
		{"caption", truncate(audio.Caption, maxCaption)},
	}
	for _, field := range fields {
		if field[1] == "" {
			continue
		}
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return fmt.Errorf("write field %s: %w", field[0], err)
		}
	}
	part, err := writer.CreateFormFile("audio", fileName)
	if err != nil {
		return fmt.Errorf("create audio part: %w", err)
	}
	if _, err := part.Write(audio.Data); err != nil {
		return fmt.Errorf("write audio part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint("sendAudio"), &body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return m.do(req)
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (m *Messenger) do(req *http.Request) error {
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var decoded apiResponse
	_ = json.Unmarshal(payload, &decoded)

	if resp.StatusCode != http.StatusOK || !decoded.OK {
		if decoded.Description != "" {
			return fmt.Errorf("telegram error: %s: %s", resp.Status, decoded.Description)
		}
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func (m *Messenger) check() error {
	if m.botToken == "" || m.chatID == "" || m.client == nil {
		return ErrMisconfigured
	}
	return nil
}

func (m *Messenger) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", m.baseURL, m.botToken, method)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
