package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

func NewDriverLocal(directory string) (Driver, error) {
	return &driverLocal{
		directory: directory,
	}, nil
}

type driverLocal struct {
	directory string
}

func (driver *driverLocal) absolutePath(filePath string) string {
	return filepath.Join(driver.directory, filepath.FromSlash(filePath))
}

func (driver *driverLocal) Get(ctx context.Context, filePath string) (io.Reader, error) {
	contents, err := os.ReadFile(driver.absolutePath(filePath))
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(contents), nil
}

func (driver *driverLocal) Put(ctx context.Context, filePath string, payload io.Reader) error {
	absolutePath := driver.absolutePath(filePath)
	if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
		return err
	}

	file, err := os.Create(absolutePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := io.Copy(file, payload); err != nil {
		return err
	}

	return file.Close()
}

func (driver *driverLocal) Delete(ctx context.Context, filePath string) error {
	if err := os.Remove(driver.absolutePath(filePath)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	return nil
}

func (driver *driverLocal) Exists(ctx context.Context, filePath string) (bool, error) {
	if _, err := os.Stat(driver.absolutePath(filePath)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (driver *driverLocal) IsReady(ctx context.Context) error {
	info, err := os.Stat(driver.directory)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return errors.New("storage path is not a directory: " + driver.directory)
	}

	return nil
}
