package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/gateway"
	"DemandCast/internal/toast"
	xhttp "DemandCast/pkg/http"
	applogger "DemandCast/pkg/logger"
)

const csvContentType = "text/csv"

// Progress reports bytes sent out of the total during the storage PUT.
type Progress func(sent, total int64)

// Uploader runs the three-step dataset upload: request a presigned grant,
// PUT the raw file to storage, then confirm completion so the backend starts
// ingesting. The storage PUT bypasses the gateway because the presigned URL
// carries its own authorization.
type Uploader struct {
	api     *gateway.Client
	storage *xhttp.Client
	toasts  *toast.Notifier
	log     *applogger.Logger
}

func NewUploader(api *gateway.Client, toasts *toast.Notifier, log *applogger.Logger) *Uploader {
	return &Uploader{
		api:     api,
		storage: xhttp.NewClient(),
		toasts:  toasts,
		log:     log,
	}
}

// UploadFile validates and uploads the CSV at path. Validation failures stop
// the flow before any network traffic.
func (u *Uploader) UploadFile(ctx context.Context, path string, progress Progress) error {
	f, err := os.Open(path)
	if err != nil {
		u.toasts.Notify("Could not open "+path, models.SeverityError)
		return xhttp.BadRequestErrorf("could not open %s", path).WithError(err)
	}
	defer f.Close()

	report, err := Validate(f)
	if err != nil {
		return err
	}
	if !report.Ok() {
		u.toasts.Notify(report.Message(), models.SeverityError)
		return xhttp.BadRequestErrorf("dataset rejected: %s", report.Message())
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind dataset: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	return u.Upload(ctx, filepath.Base(path), data, progress)
}

// Upload sends pre-validated CSV bytes through the presigned flow.
func (u *Uploader) Upload(ctx context.Context, filename string, data []byte, progress Progress) error {
	ticket, err := u.requestTicket(ctx, filename)
	if err != nil {
		u.toasts.Notify("Failed to start upload", models.SeverityError)
		return err
	}

	if err := u.putObject(ctx, ticket, data, progress); err != nil {
		u.toasts.Notify("Upload to storage failed", models.SeverityError)
		return err
	}

	if err := u.complete(ctx, ticket); err != nil {
		u.toasts.Notify("Failed to finalize upload", models.SeverityError)
		return err
	}

	u.log.Info("dataset uploaded",
		applogger.String("filename", filename),
		applogger.String("key", ticket.Key),
	)
	u.toasts.Notify("Dataset uploaded successfully!", models.SeveritySuccess)
	return nil
}

func (u *Uploader) requestTicket(ctx context.Context, filename string) (*models.UploadTicket, error) {
	res := u.api.Do(ctx, "/upload/generate-upload-url", &gateway.Options{
		Query: map[string][]string{
			"filename":     {filename},
			"content_type": {csvContentType},
		},
	})
	if !res.Ok() {
		return nil, fmt.Errorf("upload grant failed: %s", res.DetailMessage("Failed to start upload"))
	}

	var ticket models.UploadTicket
	if err := res.Decode(&ticket); err != nil {
		return nil, fmt.Errorf("decode upload grant: %w", err)
	}
	if ticket.UploadURL == "" {
		return nil, fmt.Errorf("upload grant missing url")
	}
	return &ticket, nil
}

// putObject streams the raw bytes to the presigned URL. Content type must
// match what the grant was issued for or storage rejects the signature.
func (u *Uploader) putObject(ctx context.Context, ticket *models.UploadTicket, data []byte, progress Progress) error {
	var body io.Reader = &progressReader{
		data:     data,
		total:    int64(len(data)),
		progress: progress,
	}

	resp, err := u.storage.SendRequest(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPut,
		URL:     ticket.UploadURL,
		Headers: map[string]string{"Content-Type": csvContentType},
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("storage put: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return xhttp.InternalErrorf("storage put: unexpected status %d", resp.StatusCode)
	}
	if progress != nil {
		progress(int64(len(data)), int64(len(data)))
	}
	return nil
}

func (u *Uploader) complete(ctx context.Context, ticket *models.UploadTicket) error {
	res := u.api.Do(ctx, "/upload/upload-complete", &gateway.Options{
		Body: map[string]string{
			"upload_id": ticket.UploadID,
			"s3_key":    ticket.Key,
		},
	})
	if !res.Ok() {
		return fmt.Errorf("upload completion failed: %s", res.DetailMessage("Failed to finalize upload"))
	}
	return nil
}

// progressReader reports cumulative bytes read to the progress callback.
type progressReader struct {
	data     []byte
	off      int64
	total    int64
	progress Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	if p.off >= p.total {
		return 0, io.EOF
	}
	n := copy(b, p.data[p.off:])
	p.off += int64(n)
	if p.progress != nil {
		p.progress(p.off, p.total)
	}
	return n, nil
}
