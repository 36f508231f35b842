package delivery

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http/httptest"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/closet-profile/internal/export"
	"github.com/terra-clan/closet-profile/internal/models"
)

func TestFilename(t *testing.T) {
	date := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name string
		want string
	}{
		{"  O'Brien/Smith ", "OBrienSmith - 2024-03-05.pdf"},
		{"Ana   Maria\tLopez", "Ana Maria Lopez - 2024-03-05.pdf"},
		{`a\b:c*d?e"f<g>h|i`, "abcdefghi - 2024-03-05.pdf"},
		{"", "client - 2024-03-05.pdf"},
		{"  /:*  ", "client - 2024-03-05.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.name, date))
		})
	}
}

func TestClassifyDevice(t *testing.T) {
	mobile := []string{
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
		"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile",
		"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)",
		"something ipod touch",
	}
	for _, ua := range mobile {
		assert.Equal(t, DeviceMobile, ClassifyDevice(ua), ua)
	}

	desktop := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)",
		"",
	}
	for _, ua := range desktop {
		assert.Equal(t, DeviceDesktop, ClassifyDevice(ua), ua)
	}
}

type fakeSharer struct {
	err   error
	calls int
	req   Request
}

func (f *fakeSharer) Share(ctx context.Context, req Request) error {
	f.calls++
	f.req = req
	return f.err
}

type fakeDownloader struct {
	calls    int
	filename string
}

func (f *fakeDownloader) Download(filename string, doc *export.Document) error {
	f.calls++
	f.filename = filename
	return nil
}

func testRequest() Request {
	return Request{
		Document: &export.Document{Bytes: []byte("%PDF-1.3 test"), ContentType: export.ContentType},
		Filename: "Ana - 2024-03-05.pdf",
		Contact:  models.Contact{Name: "Ana", Email: "ana@example.com"},
	}
}

func TestDeliverMobileShares(t *testing.T) {
	sharer := &fakeSharer{}
	dl := &fakeDownloader{}

	method, err := NewAdapter(sharer).Deliver(context.Background(), testRequest(), DeviceMobile, dl)
	require.NoError(t, err)

	assert.Equal(t, MethodShare, method)
	assert.Equal(t, 1, sharer.calls)
	assert.Equal(t, ShareTitle, sharer.req.Title)
	assert.Equal(t, 0, dl.calls)
}

func TestDeliverShareFailureFallsBack(t *testing.T) {
	sharer := &fakeSharer{err: errors.New("throttled")}
	dl := &fakeDownloader{}

	method, err := NewAdapter(sharer).Deliver(context.Background(), testRequest(), DeviceMobile, dl)
	require.NoError(t, err)

	assert.Equal(t, MethodDownload, method)
	assert.Equal(t, 1, sharer.calls)
	assert.Equal(t, 1, dl.calls)
	assert.Equal(t, "Ana - 2024-03-05.pdf", dl.filename)
}

func TestDeliverDesktopDownloads(t *testing.T) {
	sharer := &fakeSharer{}
	dl := &fakeDownloader{}

	method, err := NewAdapter(sharer).Deliver(context.Background(), testRequest(), DeviceDesktop, dl)
	require.NoError(t, err)

	assert.Equal(t, MethodDownload, method)
	assert.Equal(t, 0, sharer.calls)
	assert.Equal(t, 1, dl.calls)
}

func TestDeliverWithoutShareSurface(t *testing.T) {
	dl := &fakeDownloader{}
	a := NewAdapter(nil)

	assert.False(t, a.CanShare())
	assert.Equal(t, MethodDownload, a.MethodFor(DeviceMobile))

	method, err := a.Deliver(context.Background(), testRequest(), DeviceMobile, dl)
	require.NoError(t, err)
	assert.Equal(t, MethodDownload, method)
	assert.Equal(t, 1, dl.calls)
}

func TestHTTPDownload(t *testing.T) {
	rec := httptest.NewRecorder()
	req := testRequest()

	require.NoError(t, HTTPDownload{W: rec}.Download(req.Filename, req.Document))

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "Ana - 2024-03-05.pdf", params["filename"])
	assert.Equal(t, "%PDF-1.3 test", rec.Body.String())
}

type mockSES struct {
	input *ses.SendRawEmailInput
	err   error
}

func (m *mockSES) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	m.input = params
	return &ses.SendRawEmailOutput{}, m.err
}

func TestMailShareSendsAttachment(t *testing.T) {
	client := &mockSES{}
	share := NewMailShareWithClient(client, MailConfig{
		From:     "summaries@studio.test",
		StudioTo: "inbox@studio.test",
		CcClient: true,
	})

	req := testRequest()
	req.Title = ShareTitle
	require.NoError(t, share.Share(context.Background(), req))

	require.NotNil(t, client.input)
	assert.Equal(t, "summaries@studio.test", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"inbox@studio.test", "ana@example.com"}, client.input.Destinations)

	msg, err := mail.ReadMessage(strings.NewReader(string(client.input.RawMessage.Data)))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", msg.Header.Get("Cc"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	_, err = mr.NextPart()
	require.NoError(t, err)

	att, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "Ana - 2024-03-05.pdf", att.FileName())
	data, err := io.ReadAll(att)
	require.NoError(t, err)
	assert.Contains(t, string(data), "JVBERi0xLjMgdGVzdA==")
}

func TestMailShareError(t *testing.T) {
	client := &mockSES{err: errors.New("MessageRejected")}
	share := NewMailShareWithClient(client, MailConfig{From: "a@b.test", StudioTo: "c@d.test"})

	err := share.Share(context.Background(), testRequest())
	assert.ErrorContains(t, err, "MessageRejected")
	assert.Len(t, client.input.Destinations, 1)
}
