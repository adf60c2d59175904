package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/set-night/pagecast/internal/config"
)

// AudioStore keeps narration files on local disk as {id}.mp3.
type AudioStore struct {
	dir       string
	urlPrefix string
}

func NewAudioStore(dir, urlPrefix string) *AudioStore {
	return &AudioStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Save writes r under a new id and returns the id and its public URL.
// The directory is created when missing.
func (s *AudioStore) Save(r io.Reader) (id, url string, err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create audio dir: %w", err)
	}

	id = uuid.NewString()
	name := id + config.AudioFileExt
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("close audio file: %w", err)
	}

	return id, s.urlPrefix + "/" + name, nil
}

// Open returns the stored file for id. Ids that are not uuids never touch the disk.
func (s *AudioStore) Open(id string) (*os.File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid audio id %q", id)
	}
	f, err := os.Open(filepath.Join(s.dir, id+config.AudioFileExt))
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	return f, nil
}
