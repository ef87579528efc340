package gmailclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/HiraG-62/maillet/internal/auth"
	"github.com/HiraG-62/maillet/internal/logging"
)

// Client is a thin wrapper over the Gmail API exposing only the three
// operations the sync pipeline needs: search, metadata fetch and full
// fetch.
type Client struct {
	svc    *gmail.Service
	logger logging.Logger
}

// NewClient builds a Gmail client whose HTTP transport handles token
// injection and the 401 refresh-retry behavior.
func NewClient(ctx context.Context, cfg *auth.Config, cache *auth.SessionCache, vault *auth.Vault, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	transport := NewAuthTransport(nil, cache, vault, cfg.Refresh, logger)
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// Search returns the IDs of messages matching the Gmail search query, up
// to maxResults.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]string, error) {
	resp, err := c.svc.Users.Messages.List("me").
		Q(query).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gmail search %q: %w", query, err)
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	c.logger.Debug("gmail search complete",
		logging.Field{Key: logging.FieldQuery, Value: query},
		logging.Field{Key: logging.FieldCount, Value: len(ids)})
	return ids, nil
}

// Metadata fetches only the Subject and From headers of a message. This
// is the cheap pre-filter fetch; no body is transferred.
func (c *Client) Metadata(ctx context.Context, id string) (subject, from string, err error) {
	msg, err := c.svc.Users.Messages.Get("me", id).
		Format("metadata").
		MetadataHeaders("Subject", "From").
		Context(ctx).
		Do()
	if err != nil {
		return "", "", fmt.Errorf("gmail metadata %s: %w", id, err)
	}
	return headerValue(msg, "Subject"), headerValue(msg, "From"), nil
}

// FullBody fetches the complete message and extracts a plain-text body
// from its MIME tree.
func (c *Client) FullBody(ctx context.Context, id string) (string, error) {
	msg, err := c.svc.Users.Messages.Get("me", id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("gmail full fetch %s: %w", id, err)
	}
	return ExtractPlainText(msg), nil
}
