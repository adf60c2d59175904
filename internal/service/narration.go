package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/domain"
)

type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
	VoiceID string
	ModelID string
	Timeout time.Duration
}

// NarrationService turns analysis summaries into stored speech via ElevenLabs.
type NarrationService struct {
	cfg    ElevenLabsConfig
	audio  *AudioStore
	voices *VoicesCache

	once       sync.Once
	httpClient *http.Client
	initErr    error
}

func NewNarrationService(cfg ElevenLabsConfig, audio *AudioStore) *NarrationService {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &NarrationService{
		cfg:    cfg,
		audio:  audio,
		voices: NewVoicesCache(config.VoiceCacheDuration),
	}
}

func (s *NarrationService) getClient() (*http.Client, error) {
	s.once.Do(func() {
		if s.cfg.APIKey == "" {
			s.initErr = domain.NewConfigError("ELEVENLABS_API_KEY is not set")
			return
		}
		s.httpClient = &http.Client{Timeout: s.cfg.Timeout}
	})
	return s.httpClient, s.initErr
}

type ttsRequest struct {
	Text          string           `json:"text"`
	ModelID       string           `json:"model_id"`
	VoiceSettings ttsVoiceSettings `json:"voice_settings"`
}

type ttsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed"`
}

// Synthesize narrates text and stores the audio. Any failure is a SynthesisError
// or, for a missing key, a ConfigError.
func (s *NarrationService) Synthesize(ctx context.Context, text string) (*domain.AudioResult, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	clean := SanitizeNarration(text)
	if clean == "" {
		return nil, domain.NewSynthesisError(domain.SubInvalidInput, "text is empty after cleaning", nil)
	}

	payload, err := json.Marshal(ttsRequest{
		Text:    clean,
		ModelID: s.cfg.ModelID,
		VoiceSettings: ttsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			UseSpeakerBoost: true,
			Speed:           1.0,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		s.cfg.BaseURL, url.PathEscape(s.cfg.VoiceID), config.AudioOutputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.NewSynthesisError(domain.SubOther, "ElevenLabs request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, synthesisStatusError(resp)
	}

	id, audioURL, err := s.audio.Save(resp.Body)
	if err != nil {
		return nil, domain.NewSynthesisError(domain.SubOther, "failed to save audio file", err)
	}

	return &domain.AudioResult{
		AudioURL: audioURL,
		AudioID:  id,
		Duration: EstimateDuration(clean),
	}, nil
}

func synthesisStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return domain.NewSynthesisError(domain.SubUnauthorized, "invalid ElevenLabs API key", cause)
	case http.StatusTooManyRequests:
		return domain.NewSynthesisError(domain.SubRateLimited, "ElevenLabs API rate limit exceeded", cause)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewSynthesisError(domain.SubInvalidInput, "invalid request parameters for ElevenLabs", cause)
	default:
		return domain.NewSynthesisError(domain.SubOther, "ElevenLabs API error", cause)
	}
}

// ListVoices returns the account's voices, or an empty list on any failure.
func (s *NarrationService) ListVoices(ctx context.Context) []domain.Voice {
	if cached := s.voices.Get(); cached != nil {
		return cached
	}

	voices, err := s.fetchVoices(ctx)
	if err != nil {
		slog.Warn("list voices failed", "error", err)
		return []domain.Voice{}
	}
	s.voices.Set(voices)
	return voices
}

func (s *NarrationService) fetchVoices(ctx context.Context) ([]domain.Voice, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch voices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch voices: status %d", resp.StatusCode)
	}

	var result struct {
		Voices []struct {
			VoiceID  string `json:"voice_id"`
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse voices: %w", err)
	}

	voices := make([]domain.Voice, 0, len(result.Voices))
	for _, v := range result.Voices {
		voices = append(voices, domain.Voice{ID: v.VoiceID, Name: v.Name, Category: v.Category})
	}
	return voices, nil
}

// SanitizeNarration keeps letters, digits, underscores, whitespace and basic
// punctuation, collapses whitespace and caps the text at the provider limit.
func SanitizeNarration(text string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r), r == '_':
			return r
		case strings.ContainsRune(".,!?;:()", r):
			return r
		}
		return -1
	}, text)
	return truncateRunes(strings.Join(strings.Fields(kept), " "), config.NarrationMaxLength)
}

// EstimateDuration is the spoken length of text in seconds at the nominal rate.
func EstimateDuration(text string) int {
	words := len(strings.Fields(text))
	return int(math.Round(float64(words) / config.WordsPerMinute * 60))
}
