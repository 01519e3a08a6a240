package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medipin-ocr/internal/platform/httpclient"
	"medipin-ocr/internal/ports/ocr"
)

var ErrNotConfigured = errors.New("remote ocr: base url not configured")

const recognizePath = "/recognize"

// Config del servicio OCR externo.
type Config struct {
	BaseURL   string
	APIKey    string // opcional, va en X-Api-Key
	Languages []string
	Timeout   time.Duration
}

// Engine delega el OCR a un servicio HTTP que recibe la imagen en base64.
type Engine struct {
	client    *httpclient.Client
	apiKey    string
	languages []string
}

type recognizeRequest struct {
	Image     []byte   `json:"image"` // encoding/json => base64
	Languages []string `json:"languages,omitempty"`
}

type recognizeResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func NewEngine(cfg Config) (*Engine, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Engine{
		client:    c,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		languages: cfg.Languages,
	}, nil
}

func (e *Engine) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	headers := map[string]string{}
	if e.apiKey != "" {
		headers["X-Api-Key"] = e.apiKey
	}

	var out recognizeResponse
	err := e.client.PostJSON(ctx, recognizePath, headers, recognizeRequest{
		Image:     image,
		Languages: e.languages,
	}, &out)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("remote ocr: %w", err)
	}

	conf := out.Confidence
	// algunos servicios informan 0-100
	if conf > 1 {
		conf /= 100
	}
	return ocr.Result{Text: strings.TrimSpace(out.Text), Confidence: conf}, nil
}
