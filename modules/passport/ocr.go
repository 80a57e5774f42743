// Package passport stores users' passport data and recognizes it from photos.
package passport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/example/grantmatch/config"
	domain "github.com/example/grantmatch/domain/passport"
)

// ErrOCRUnavailable is returned when no recognizer backend is configured.
var ErrOCRUnavailable = errors.New("passport recognition is not configured")

const mainPagePrompt = `Проанализируй изображение паспорта РФ и извлеки следующие данные в формате JSON:
- series (серия паспорта, 4 цифры)
- number (номер паспорта, 6 цифр)
- last_name (фамилия)
- first_name (имя)
- middle_name (отчество)
- birth_date (дата рождения в формате DD.MM.YYYY)
- birth_place (место рождения)
- issue_date (дата выдачи в формате DD.MM.YYYY)
- issuing_authority (кем выдан)
- department_code (код подразделения в формате XXX-XXX)

Верни только JSON без дополнительного текста.`

const registrationPagePrompt = `Проанализируй страницу с регистрацией паспорта РФ и извлеки следующие данные в формате JSON:
- registration_address (адрес регистрации)
- registration_date (дата регистрации в формате DD.MM.YYYY)

Верни только JSON без дополнительного текста.`

// Image is an uploaded page photo.
type Image struct {
	Data        []byte
	ContentType string
}

func (img Image) dataURL() string {
	ct := img.ContentType
	if ct == "" {
		ct = http.DetectContentType(img.Data)
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Recognizer extracts passport fields from page photos. The registration
// page is optional.
type Recognizer interface {
	Recognize(ctx context.Context, mainPage Image, registrationPage *Image) (*domain.Fields, error)
}

// NewRecognizer returns a VisionRecognizer for cfg, or a recognizer that
// always fails with ErrOCRUnavailable when cfg.URL is empty.
func NewRecognizer(cfg config.OCRConfig) Recognizer {
	if cfg.URL == "" {
		return unavailableRecognizer{}
	}
	return NewVisionRecognizer(cfg, nil)
}

type unavailableRecognizer struct{}

func (unavailableRecognizer) Recognize(context.Context, Image, *Image) (*domain.Fields, error) {
	return nil, ErrOCRUnavailable
}

// VisionError is returned when the vision model endpoint responds with an error.
type VisionError struct {
	StatusCode int
	Message    string
}

func (err *VisionError) Error() string {
	return fmt.Sprintf("ocr: HTTP %d: %s", err.StatusCode, err.Message)
}

// VisionRecognizer prompts a multimodal model through an OpenAI-compatible
// /v1/chat/completions endpoint and decodes its JSON answer.
type VisionRecognizer struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
}

var _ Recognizer = (*VisionRecognizer)(nil)

// NewVisionRecognizer creates a VisionRecognizer. cfg.URL may be the server
// base URL or the full chat completions endpoint.
func NewVisionRecognizer(cfg config.OCRConfig, httpClient *http.Client) *VisionRecognizer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	endpoint := strings.TrimRight(cfg.URL, "/")
	if !strings.HasSuffix(endpoint, "/chat/completions") {
		endpoint += "/v1/chat/completions"
	}
	return &VisionRecognizer{
		httpClient: httpClient,
		endpoint:   endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
	}
}

// Recognize reads the main page and, when given, the registration page.
func (r *VisionRecognizer) Recognize(ctx context.Context, mainPage Image, registrationPage *Image) (*domain.Fields, error) {
	var fields domain.Fields
	if err := r.ask(ctx, mainPagePrompt, mainPage, &fields); err != nil {
		return nil, fmt.Errorf("error processing passport data: %w", err)
	}

	if registrationPage != nil {
		var reg struct {
			RegistrationAddress string `json:"registration_address"`
			RegistrationDate    string `json:"registration_date"`
		}
		if err := r.ask(ctx, registrationPagePrompt, *registrationPage, &reg); err != nil {
			return nil, fmt.Errorf("error processing registration page: %w", err)
		}
		fields.RegistrationAddress = reg.RegistrationAddress
		fields.RegistrationDate = reg.RegistrationDate
	}
	return &fields, nil
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string            `json:"role"`
	Content []chatContentPart `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r *VisionRecognizer) ask(ctx context.Context, prompt string, img Image, out any) error {
	body, err := json.Marshal(chatRequest{
		Model: r.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &chatImageURL{URL: img.dataURL()}},
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &VisionError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return errors.New("model returned no choices")
	}

	answer := cleanJSON(decoded.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(answer), out); err != nil {
		return fmt.Errorf("parsing model answer: %w", err)
	}
	return nil
}

// cleanJSON strips markdown code fences around a model's JSON answer.
func cleanJSON(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
