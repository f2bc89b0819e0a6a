package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	Value     string
	ExpiresAt time.Time
}

// NewDriverMemory keeps values in process. Expired values are swept once a
// minute.
func NewDriverMemory() (Driver, error) {
	driver := &driverMemory{
		mutex: &sync.RWMutex{},
		data:  map[string]memoryItem{},
	}

	go func() {
		for range time.NewTicker(time.Minute).C {
			driver.cleanup(time.Now())
		}
	}()

	return driver, nil
}

type driverMemory struct {
	mutex *sync.RWMutex
	data  map[string]memoryItem
}

func (driver *driverMemory) Delete(ctx context.Context, key string) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	delete(driver.data, key)

	return nil
}

func (driver *driverMemory) Get(ctx context.Context, key string) (string, error) {
	driver.mutex.RLock()
	defer driver.mutex.RUnlock()

	item, found := driver.data[key]
	if !found || !time.Now().Before(item.ExpiresAt) {
		return "", ErrNotFound
	}

	return item.Value, nil
}

func (driver *driverMemory) Set(ctx context.Context, key string, value string, duration time.Duration) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	driver.data[key] = memoryItem{
		Value:     value,
		ExpiresAt: time.Now().Add(duration),
	}

	return nil
}

func (driver *driverMemory) cleanup(now time.Time) {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	for key, item := range driver.data {
		if now.After(item.ExpiresAt) {
			delete(driver.data, key)
		}
	}
}
