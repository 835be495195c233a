package apispec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
)

const (
	// DefaultAttempts is the number of tries for a remote fetch.
	DefaultAttempts = 3
	// InferredFormat is reported when a fetched document decodes as JSON or
	// YAML and no format was given.
	InferredFormat = "OpenAPI"

	// DefaultMaxBodySize caps a remote document at 10 MiB.
	DefaultMaxBodySize = 10 << 20
)

var (
	// ErrSourceNotFound is returned for a local source that does not exist.
	ErrSourceNotFound = errors.New("spec source not found")
	// ErrBodyTooLarge is returned when a remote document exceeds the body limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// FetchResult is the fetched document.
type FetchResult struct {
	Content     string `json:"spec_content"`
	Format      string `json:"spec_format,omitempty"`
	Source      string `json:"source"`
	ContentType string `json:"content_type,omitempty"`
}

// Fetcher retrieves documents from local paths or http(s) URLs.
type Fetcher struct {
	Client      *http.Client
	Attempts    uint
	Delay       time.Duration
	MaxBodySize int64
}

// NewFetcher returns a Fetcher with default retry settings.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:      &http.Client{Timeout: 30 * time.Second},
		Attempts:    DefaultAttempts,
		Delay:       500 * time.Millisecond,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Fetch uses a default Fetcher.
func Fetch(ctx context.Context, source, format string) (*FetchResult, error) {
	return NewFetcher().Fetch(ctx, source, format)
}

// Fetch reads source. HTML responses are converted to Markdown. When format
// is empty and the content decodes as a JSON or YAML object, the format is
// reported as InferredFormat.
func (f *Fetcher) Fetch(ctx context.Context, source, format string) (*FetchResult, error) {
	result := &FetchResult{Source: source, Format: format}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		content, contentType, err := f.fetchURL(ctx, source)
		if err != nil {
			return nil, err
		}
		result.Content = content
		result.ContentType = contentType
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrSourceNotFound, "local file '%s'", source)
			}
			return nil, errors.Wrapf(err, "failed to read local file '%s'", source)
		}
		result.Content = string(data)
	}

	if result.Format == "" && result.Content != "" {
		if _, err := LoadObject(result.Content, ""); err == nil {
			result.Format = InferredFormat
		}
	}
	return result, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, url string) (string, string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	attempts := f.Attempts
	if attempts == 0 {
		attempts = DefaultAttempts
	}
	limit := f.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	var content, contentType string
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(errors.Wrap(err, "failed to create request"))
			}
			req.Header.Set("Accept", "application/json, application/yaml, text/yaml, text/plain, */*")

			resp, err := client.Do(req)
			if err != nil {
				return errors.Wrap(err, "failed to fetch URL")
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 {
				statusErr := fmt.Errorf("HTTP error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
				if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
					return retry.Unrecoverable(statusErr)
				}
				return statusErr
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
			if err != nil {
				return errors.Wrap(err, "failed to read response body")
			}
			if int64(len(body)) > limit {
				return retry.Unrecoverable(errors.Wrapf(ErrBodyTooLarge, "more than %d bytes", limit))
			}

			contentType = resp.Header.Get("Content-Type")
			content = string(body)
			if strings.Contains(contentType, "text/html") {
				converted, err := convertHTMLToMarkdown(content)
				if err != nil {
					return retry.Unrecoverable(err)
				}
				content = converted
			}
			return nil
		},
		retry.Attempts(attempts),
		retry.Delay(f.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).WithField("url", url).Warn("retrying spec fetch")
		}),
	)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to fetch spec from '%s'", url)
	}
	return content, contentType, nil
}

func convertHTMLToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", errors.Wrap(err, "failed to convert HTML to markdown")
	}
	return strings.TrimSpace(markdown), nil
}
