package images

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// File is one uploaded image held in memory.
type File struct {
	Name string
	Data []byte
}

// Uploader relays image binaries to an external host and returns their public
// URLs in input order.
type Uploader interface {
	UploadAll(ctx context.Context, files []File) ([]string, error)
}

// transformation bounds every upload to an 800x600 box preserving aspect
// ratio, with automatic quality selection.
const transformation = "c_limit,w_800,h_600/q_auto:good"

// CloudinaryUploader relays uploads to a Cloudinary account.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader creates an uploader bound to one account and folder.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// UploadAll sends every file to the host concurrently. The batch is
// all-or-nothing at the response level: the first failure fails the whole
// call, and uploads that already completed on the host are best-effort
// destroyed so no orphans are left behind.
func (u *CloudinaryUploader) UploadAll(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, len(files))
	publicIDs := make([]string, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			resp, err := u.cld.Upload.Upload(gctx, bytes.NewReader(f.Data), uploader.UploadParams{
				Folder:         u.folder,
				Transformation: transformation,
			})
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			if resp.Error.Message != "" {
				return fmt.Errorf("upload %s: %s", f.Name, resp.Error.Message)
			}
			mu.Lock()
			urls[i] = resp.SecureURL
			publicIDs[i] = resp.PublicID
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.destroyCompleted(publicIDs)
		return nil, err
	}
	return urls, nil
}

// destroyCompleted deletes the uploads that made it to the host before the
// batch failed. Failures here are logged and swallowed; the batch error is
// what the caller needs to see.
func (u *CloudinaryUploader) destroyCompleted(publicIDs []string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		_, err := u.cld.Upload.Destroy(context.Background(), uploader.DestroyParams{PublicID: id})
		if err != nil {
			log.Warn().Err(err).Str("public_id", id).Msg("Failed to clean up orphaned upload")
		}
	}
}
