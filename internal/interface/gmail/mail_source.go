package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"residency-sync/internal/domain/entity"
	"residency-sync/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// MailSource reads travel mail from pre-labelled Gmail folders
type MailSource struct {
	service      *gmail.Service
	hotelFolder  string
	flightFolder string
	logger       logger.Logger
}

// NewMailSource creates a new Gmail-backed item source. hotelFolder and
// flightFolder are the Gmail label names the user sorts travel mail into.
func NewMailSource(ctx context.Context, tokenSource oauth2.TokenSource, hotelFolder, flightFolder string, logger logger.Logger) (*MailSource, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &MailSource{
		service:      service,
		hotelFolder:  hotelFolder,
		flightFolder: flightFolder,
		logger:       logger,
	}, nil
}

// FetchFolder fetches messages from one labelled folder received since the
// given floor and converts them to raw items.
func (s *MailSource) FetchFolder(ctx context.Context, folder entity.ItemFolder, since time.Time) ([]*entity.RawItem, error) {
	label := s.labelFor(folder)
	if label == "" {
		return nil, fmt.Errorf("no label configured for folder %q", folder)
	}

	query := fmt.Sprintf("label:%s after:%s", label, since.Format("2006/01/02"))
	s.logger.Info("Querying Gmail", "query", query)

	resp, err := s.service.Users.Messages.List("me").Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var items []*entity.RawItem
	for _, msg := range resp.Messages {
		fullMsg, err := s.service.Users.Messages.Get("me", msg.Id).Context(ctx).Do()
		if err != nil {
			s.logger.Error("Failed to get message", "emailID", msg.Id, "error", err)
			continue
		}

		item := s.convertToItem(fullMsg, folder)
		if item == nil {
			continue
		}
		items = append(items, item)
	}

	s.logger.Info("Mail fetch completed",
		"folder", folder,
		"totalFromGmail", len(resp.Messages),
		"converted", len(items))
	return items, nil
}

func (s *MailSource) labelFor(folder entity.ItemFolder) string {
	switch folder {
	case entity.FolderHotel:
		return s.hotelFolder
	case entity.FolderFlight:
		return s.flightFolder
	}
	return ""
}

// convertToItem converts a Gmail message to a raw item. Plain-text parts are
// preferred; an HTML-only message is tag-stripped.
func (s *MailSource) convertToItem(msg *gmail.Message, folder entity.ItemFolder) *entity.RawItem {
	item := &entity.RawItem{
		Folder: folder,
		Source: entity.SourceEmail,
		Start:  time.Unix(0, msg.InternalDate*int64(time.Millisecond)),
	}

	for _, header := range msg.Payload.Headers {
		if header.Name == "Subject" {
			item.Subject = header.Value
		}
	}

	var htmlBody string

	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(msg.Payload.Body.Data); err == nil {
			item.Body = string(data)
		}
	}

	for _, part := range msg.Payload.Parts {
		if part.Body == nil || part.Body.Data == "" {
			continue
		}
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			continue
		}
		switch part.MimeType {
		case "text/plain":
			item.Body = string(data)
		case "text/html":
			htmlBody = string(data)
		}
	}

	if item.Body == "" && htmlBody != "" {
		item.Body = stripHTML(htmlBody)
	}

	if item.Subject == "" && item.Body == "" {
		return nil
	}
	return item
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func stripHTML(text string) string {
	cleaned := htmlTagRe.ReplaceAllString(text, " ")

	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")
	cleaned = strings.ReplaceAll(cleaned, "&amp;", "&")
	cleaned = strings.ReplaceAll(cleaned, "&lt;", "<")
	cleaned = strings.ReplaceAll(cleaned, "&gt;", ">")
	cleaned = strings.ReplaceAll(cleaned, "&#39;", "'")
	cleaned = strings.ReplaceAll(cleaned, "&quot;", "\"")

	return strings.TrimSpace(cleaned)
}
