package spec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	invopop "github.com/invopop/yaml"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
	ConversionError ErrorCode = "ConversionError"
)

// SpecError is a structured error with optional location and JSON Pointer.
type SpecError struct {
	Code        ErrorCode
	Message     string
	Location    string // file path or URL
	JSONPointer string // e.g. "#/paths/~1pets/get"
	Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	// AllowFileRefs controls whether file:// refs may be followed for
	// external references. Always allowed when the root input is a local
	// file, so typical multi-file documents load without configuration.
	AllowFileRefs bool
	// FetchLimiter paces every outgoing HTTP request, including external
	// ref resolution. Nil disables pacing.
	FetchLimiter *rate.Limiter
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout:  10 * time.Second,
		MaxRetries:   3,
		BackoffBase:  200 * time.Millisecond,
		FetchLimiter: rate.NewLimiter(rate.Limit(20), 10),
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option  { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option             { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option  { return func(s *Settings) { s.BackoffBase = d } }
func WithAllowFileRefs(allow bool) Option     { return func(s *Settings) { s.AllowFileRefs = allow } }
func WithFetchLimiter(l *rate.Limiter) Option { return func(s *Settings) { s.FetchLimiter = l } }

// Load reads, validates, and returns an OpenAPI v3 document. Swagger v2
// input is converted to v3 via kin-openapi after a compatibility fixup.
//
// input may be a filesystem path or an http/https URL. file:// URLs are
// rejected as root inputs; file-based external refs follow the
// AllowFileRefs setting.
func Load(ctx context.Context, input string, opts ...Option) (*openapi3.T, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &SpecError{Code: InputError, Message: "spec: input is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	base, raw, err := readInput(ctx, input, settings)
	if err != nil {
		return nil, err
	}
	location := base.String()
	if base.Scheme == "" {
		location = base.Path
	}

	version, err := sniffVersion(raw)
	if err != nil {
		return nil, &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}

	rootIsFile := base.Scheme == ""
	switch version {
	case 3:
		loader := newLoader(ctx, settings, rootIsFile)
		doc, err := loader.LoadFromDataWithPath(raw, base)
		if err != nil {
			return nil, classifyLoadError(err, location)
		}
		return validated(ctx, doc, location)
	case 2:
		if fixed, changed, _ := fixupV2(raw); changed {
			raw = fixed
		}
		doc, err := convertV2ToV3(raw)
		if err != nil {
			return nil, &SpecError{Code: ConversionError, Message: fmt.Sprintf("convert v2 to v3: %v", err), Location: location, Cause: err}
		}
		// Converted documents may still carry refs the resolver cannot
		// reach; validation decides whether that matters.
		_ = newLoader(ctx, settings, rootIsFile).ResolveRefsIn(doc, base)
		return validated(ctx, doc, location)
	default:
		return nil, &SpecError{Code: ParseError, Message: "spec: unknown or unsupported OpenAPI/Swagger version", Location: location}
	}
}

// readInput resolves the input to a base URI and its raw bytes. Local paths
// come back with an empty scheme and an absolute Path.
func readInput(ctx context.Context, input string, settings Settings) (*url.URL, []byte, error) {
	if u, err := url.Parse(input); err == nil && u.Scheme != "" && u.Host != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			raw, err := fetchWithRetry(ctx, input, settings)
			if err != nil {
				return nil, nil, &SpecError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
			}
			return u, raw, nil
		case "file":
			return nil, nil, &SpecError{Code: InputError, Message: "spec: file:// URLs are not accepted as root input, pass the path directly", Location: input}
		default:
			return nil, nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https)", u.Scheme), Location: input}
		}
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, nil, &SpecError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, &SpecError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
	}
	return &url.URL{Path: abs}, raw, nil
}

func validated(ctx context.Context, doc *openapi3.T, location string) (*openapi3.T, error) {
	if err := doc.Validate(ctx); err != nil && !canProceedDespiteValidation(err) {
		return nil, classifyLoadError(err, location)
	}
	return doc, nil
}

func newLoader(ctx context.Context, settings Settings, rootIsFile bool) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	client := &http.Client{Timeout: settings.HTTPTimeout}
	allowFile := settings.AllowFileRefs || rootIsFile
	loader.ReadFromURIFunc = func(_ *openapi3.Loader, uri *url.URL) ([]byte, error) {
		switch strings.ToLower(uri.Scheme) {
		case "", "file":
			if !allowFile {
				return nil, fmt.Errorf("blocked file ref: %s", uri.String())
			}
			path := uri.Path
			if path == "" {
				path = uri.Opaque
			}
			return os.ReadFile(path)
		case "http", "https":
			if lim := settings.FetchLimiter; lim != nil {
				if err := lim.Wait(ctx); err != nil {
					return nil, err
				}
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, uri.String())
			}
			return io.ReadAll(resp.Body)
		default:
			return nil, fmt.Errorf("unsupported ref scheme: %s", uri.Scheme)
		}
	}
	return loader
}

// sniffVersion returns 3 for OpenAPI v3, 2 for Swagger v2, else an error.
func sniffVersion(data []byte) (int, error) {
	var root struct {
		OpenAPI string `yaml:"openapi"`
		Swagger string `yaml:"swagger"`
	}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, fmt.Errorf("parse spec: %w", err)
	}
	switch {
	case strings.HasPrefix(strings.TrimSpace(root.OpenAPI), "3."):
		return 3, nil
	case strings.HasPrefix(strings.TrimSpace(root.Swagger), "2."):
		return 2, nil
	}
	return 0, errors.New("spec: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

func convertV2ToV3(data []byte) (*openapi3.T, error) {
	// openapi2.T declares json tags only; invopop routes YAML through the
	// json decoder so multi-word keys like basePath survive.
	var v2 openapi2.T
	if err := invopop.Unmarshal(data, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if lim := settings.FetchLimiter; lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return nil, err
			}
		}
		body, retryable, err := fetchOnce(ctx, client, rawURL)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func fetchOnce(ctx context.Context, client *http.Client, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, true, fmt.Errorf("transient http %d", resp.StatusCode)
		}
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, false, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}

func classifyLoadError(err error, location string) error {
	pointer := extractJSONPointer(err)
	code := ValidationError
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "parse") || strings.Contains(msg, "invalid character") {
		code = ParseError
	}
	return &SpecError{Code: code, Message: err.Error(), Location: location, JSONPointer: pointer, Cause: err}
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'"]+`)

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		return extractJSONPointer(multi[0])
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
		if se.SchemaField != "" {
			return se.SchemaField
		}
	}
	if m := jsonPtrRe.FindString(err.Error()); m != "" {
		return m
	}
	return ""
}

// canProceedDespiteValidation reports validation failures a best-effort
// build can survive, like unresolved external refs.
func canProceedDespiteValidation(err error) bool {
	if err == nil {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unresolved ref")
}
