package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults returns settings with every optional key filled in. The day
// weight table and the truth source path have no defaults.
func Defaults() Settings {
	return Settings{
		App: App{Name: "truthapi", Version: "dev"},
		API: API{
			Endpoints: Endpoints{Root: "/", Truth: "/truth", Health: "/health"},
			ContentNegotiation: ContentNegotiation{
				PlainTextAccept: "text/plain",
				HTMLAccept:      "text/html",
			},
			AdminReloadIntervalSeconds: 10,
		},
		Truths: Truths{
			Source:   SourceFile,
			RedisKey: "truthapi:truths",
			Validation: TruthValidation{
				MinCount:        1,
				NormalizeTruths: true,
			},
		},
		RateLimit: RateLimit{
			RequestsPerPeriod:      60,
			PeriodSeconds:          60,
			KeyStrategy:            "remote_address",
			CleanupIntervalSeconds: 60,
		},
		Headers: Headers{
			CacheControl: "no-store",
			Vary:         "Accept",
		},
		Errors: Errors{
			FieldNames: FieldNames{
				Error:             "error",
				Message:           "message",
				RequestID:         "request_id",
				RetryAfterSeconds: "retry_after_seconds",
			},
			StatusMappings: StatusMappings{
				RateLimited:      http.StatusTooManyRequests,
				NotFound:         http.StatusNotFound,
				NoCandidates:     http.StatusNotFound,
				MethodNotAllowed: http.StatusMethodNotAllowed,
				NotAcceptable:    http.StatusNotAcceptable,
				ReloadThrottled:  http.StatusTooManyRequests,
				Internal:         http.StatusInternalServerError,
			},
		},
		Observability: Observability{
			Logging: Logging{Level: "info", Format: "text"},
		},
	}
}

// Load reads, decodes and validates the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	return Parse(data)
}

// Parse decodes YAML over Defaults and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Settings, error) {
	s := Defaults()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrDecode, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Settings {
	s, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("settings: %v", err))
	}
	return s
}
