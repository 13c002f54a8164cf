package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/storage"
)

// FilePersister keeps the session in one file named after the namespace.
type FilePersister struct {
	files  storage.FileStorage
	path   string
	sealer *Sealer
}

func NewFilePersister(files storage.FileStorage, namespace string, sealer *Sealer) *FilePersister {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &FilePersister{files: files, path: namespace + ".json", sealer: sealer}
}

func (p *FilePersister) Load(ctx context.Context) (Session, bool, error) {
	rc, err := p.files.Get(ctx, p.path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to read session file: %w", err)
	}
	state, err := decode(data, p.sealer)
	if err != nil {
		return Session{}, false, err
	}
	return state, true, nil
}

func (p *FilePersister) Save(ctx context.Context, state Session) error {
	data, err := encode(state, p.sealer)
	if err != nil {
		return err
	}
	return p.files.Put(ctx, p.path, bytes.NewReader(data))
}
