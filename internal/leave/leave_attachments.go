package leave

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const MaxAttachments = 5

// AttachmentStore persists uploaded files and returns their metadata. The
// metadata is what ends up on the leave request record.
//
//go:generate mockgen -source=leave_attachments.go -destination=mock/attachment_store_mock.go -package=mock
type AttachmentStore interface {
	Save(fh *multipart.FileHeader) (AttachmentMeta, error)
}

type diskAttachmentStore struct {
	dir string
	now func() time.Time
}

func NewDiskAttachmentStore(dir string) AttachmentStore {
	return &diskAttachmentStore{dir: dir, now: time.Now}
}

func (s *diskAttachmentStore) Save(fh *multipart.FileHeader) (AttachmentMeta, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return AttachmentMeta{}, err
	}

	// The stored name is random; the original name only survives in metadata.
	storedName := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return AttachmentMeta{}, err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return AttachmentMeta{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return AttachmentMeta{}, err
	}

	return AttachmentMeta{
		OriginalName: fh.Filename,
		StoredName:   storedName,
		Size:         fh.Size,
		ContentType:  fh.Header.Get("Content-Type"),
		UploadedAt:   s.now().UTC(),
	}, nil
}
