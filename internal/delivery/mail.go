package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used for sharing
type SESAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// MailConfig configures the mail share surface
type MailConfig struct {
	Region   string
	From     string
	StudioTo string
	CcClient bool
}

// MailShare shares a summary by mailing it to the studio inbox
type MailShare struct {
	client SESAPI
	cfg    MailConfig
}

// NewMailShare creates a MailShare backed by the default AWS credential chain
func NewMailShare(ctx context.Context, cfg MailConfig) (*MailShare, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewMailShareWithClient(ses.NewFromConfig(awsCfg), cfg), nil
}

// NewMailShareWithClient wraps an existing SES client
func NewMailShareWithClient(client SESAPI, cfg MailConfig) *MailShare {
	return &MailShare{client: client, cfg: cfg}
}

// Share implements Sharer
func (m *MailShare) Share(ctx context.Context, req Request) error {
	to := []string{m.cfg.StudioTo}
	var cc []string
	if m.cfg.CcClient && strings.TrimSpace(req.Contact.Email) != "" {
		cc = append(cc, strings.TrimSpace(req.Contact.Email))
	}

	raw, err := buildMessage(m.cfg.From, to, cc, req)
	if err != nil {
		return err
	}

	_, err = m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(m.cfg.From),
		Destinations: append(to, cc...),
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("failed to send summary: %w", err)
	}
	return nil
}

// buildMessage renders a multipart/mixed message with the PDF attached
func buildMessage(from string, to, cc []string, req Request) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	subject := req.Title
	if name := strings.TrimSpace(req.Contact.Name); name != "" {
		subject += " - " + name
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	if len(cc) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(cc, ", "))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=utf-8"},
		"Content-Transfer-Encoding": {"8bit"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}
	fmt.Fprintf(body, "%s attached: %s\r\n", req.Title, req.Filename)

	att, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType(req.Document.ContentType, map[string]string{"name": req.Filename})},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": req.Filename})},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	enc := base64.StdEncoding.EncodeToString(req.Document.Bytes)
	for len(enc) > 76 {
		fmt.Fprintf(att, "%s\r\n", enc[:76])
		enc = enc[76:]
	}
	fmt.Fprintf(att, "%s\r\n", enc)

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}
	return buf.Bytes(), nil
}
