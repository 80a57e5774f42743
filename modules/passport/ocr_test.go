package passport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/grantmatch/config"
	domain "github.com/example/grantmatch/domain/passport"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```\n{}\n```  ", `{}`},
	}
	for _, tt := range tests {
		if got := cleanJSON(tt.in); got != tt.want {
			t.Errorf("cleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// newVisionServer answers chat completions with the main-page or
// registration-page JSON depending on the prompt.
func newVisionServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
			http.Error(w, "unexpected message shape", http.StatusBadRequest)
			return
		}
		img := req.Messages[0].Content[1].ImageURL
		if img == nil || !strings.HasPrefix(img.URL, "data:image/png;base64,") {
			http.Error(w, "image must be a data URL", http.StatusBadRequest)
			return
		}

		answer := "```json\n{\"series\":\"4509\",\"number\":\"123456\",\"last_name\":\"Иванов\",\"first_name\":\"Иван\",\"department_code\":\"770-001\"}\n```"
		if strings.Contains(req.Messages[0].Content[0].Text, "registration_address") {
			answer = `{"registration_address":"Москва, ул. Ленина, 1","registration_date":"01.02.2010"}`
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": answer}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVisionRecognizer_Recognize(t *testing.T) {
	srv := newVisionServer(t)
	r := NewVisionRecognizer(config.OCRConfig{URL: srv.URL, Model: "vision"}, srv.Client())
	page := Image{Data: []byte("png"), ContentType: "image/png"}

	got, err := r.Recognize(context.Background(), page, nil)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if got.Series != "4509" || got.Number != "123456" || got.DepartmentCode != "770-001" {
		t.Errorf("Recognize() = %+v", got)
	}
	if got.RegistrationAddress != "" {
		t.Errorf("RegistrationAddress = %q, want empty without registration page", got.RegistrationAddress)
	}

	got, err = r.Recognize(context.Background(), page, &page)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if got.RegistrationAddress != "Москва, ул. Ленина, 1" || got.RegistrationDate != "01.02.2010" {
		t.Errorf("Recognize() registration = %q, %q", got.RegistrationAddress, got.RegistrationDate)
	}
	if got.LastName != "Иванов" {
		t.Errorf("LastName = %q, want main page data kept", got.LastName)
	}
}

func TestVisionRecognizer_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer bad":
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		case "Bearer prose":
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"I cannot read this image."}}]}`))
		default:
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}
	}))
	defer srv.Close()
	page := Image{Data: []byte("png")}

	_, err := NewVisionRecognizer(config.OCRConfig{URL: srv.URL, APIKey: "bad"}, srv.Client()).Recognize(context.Background(), page, nil)
	var visionErr *VisionError
	if !errors.As(err, &visionErr) || visionErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Recognize() error = %v, want VisionError 429", err)
	}

	_, err = NewVisionRecognizer(config.OCRConfig{URL: srv.URL, APIKey: "prose"}, srv.Client()).Recognize(context.Background(), page, nil)
	if err == nil || !strings.Contains(err.Error(), "parsing model answer") {
		t.Errorf("Recognize() error = %v, want parse failure", err)
	}

	_, err = NewVisionRecognizer(config.OCRConfig{URL: srv.URL}, srv.Client()).Recognize(context.Background(), page, nil)
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("Recognize() error = %v, want no choices", err)
	}
}

func TestNewRecognizer_Unconfigured(t *testing.T) {
	_, err := NewRecognizer(config.OCRConfig{}).Recognize(context.Background(), Image{}, nil)
	if !errors.Is(err, ErrOCRUnavailable) {
		t.Errorf("Recognize() error = %v, want %v", err, ErrOCRUnavailable)
	}
}

type stubRecognizer struct {
	fields *domain.Fields
	err    error
}

func (s stubRecognizer) Recognize(context.Context, Image, *Image) (*domain.Fields, error) {
	return s.fields, s.err
}

func TestScanner_Scan(t *testing.T) {
	f := validFields()
	f.BirthPlace = "г. Москва"

	in, err := NewScanner(stubRecognizer{fields: &f}).Scan(context.Background(), Image{}, nil)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if *in.Series != "4509" || *in.BirthPlace != "г. Москва" {
		t.Errorf("Scan() = %+v", in)
	}
	if in.MiddleName != nil {
		t.Errorf("MiddleName = %v, want nil for unrecognized field", *in.MiddleName)
	}

	bad := validFields()
	bad.Number = "12"
	if _, err := NewScanner(stubRecognizer{fields: &bad}).Scan(context.Background(), Image{}, nil); !errors.Is(err, ErrRecognition) {
		t.Errorf("Scan() error = %v, want %v", err, ErrRecognition)
	}

	if _, err := NewScanner(stubRecognizer{err: ErrOCRUnavailable}).Scan(context.Background(), Image{}, nil); !errors.Is(err, ErrOCRUnavailable) {
		t.Errorf("Scan() error = %v, want %v", err, ErrOCRUnavailable)
	}
}
