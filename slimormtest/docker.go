package slimormtest

import (
	"fmt"
	"maps"
	"net/url"
	"os"
	"slices"
	"strconv"
	"testing"

	"github.com/ory/dockertest"
)

// DockerServiceConfig describes a throwaway container and how to build a
// client for it once it listens.
type DockerServiceConfig[T any] struct {
	DockerImage    string
	DockerImageTag string
	InternalPort   int
	Environment    map[string]string
	Builder        func(host string, port int) (T, error)
}

func (config DockerServiceConfig[T]) Env() []string {
	env := []string{}
	for _, key := range slices.Sorted(maps.Keys(config.Environment)) {
		env = append(env, fmt.Sprintf("%s=%s", key, config.Environment[key]))
	}

	return env
}

// GetDockerService starts the container, retries Builder until it
// succeeds and purges the container when the test ends. Skipped with
// -short.
func GetDockerService[T any](
	t *testing.T,
	config DockerServiceConfig[T],
) T {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping long-running test in short mode.")
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not construct pool: %s", err)
	}

	if err := pool.Client.Ping(); err != nil {
		t.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.Run(
		config.DockerImage,
		config.DockerImageTag,
		config.Env(),
	)
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("Could not purge resource: %s", err)
		}
	})

	mappedAddress := "tcp://" + resource.GetHostPort(fmt.Sprintf("%d/tcp", config.InternalPort))
	mappedURL, err := url.Parse(mappedAddress)
	if err != nil {
		t.Fatalf("Error parsing container address: %s", err)
	}

	host := mappedURL.Hostname()

	// A remote docker daemon publishes ports on its own host
	if dockerHost := os.Getenv("DOCKER_HOST"); dockerHost != "" {
		dockerURL, err := url.Parse(dockerHost)
		if err != nil {
			t.Fatalf("Error parsing docker URL: %s", err)
		}

		if dockerURL.Hostname() != "" {
			host = dockerURL.Hostname()
		}
	}

	port, err := strconv.Atoi(mappedURL.Port())
	if err != nil {
		t.Fatalf("Error parsing container port: %s", err)
	}

	var service T

	if err := pool.Retry(func() error {
		var err error

		service, err = config.Builder(host, port)

		return err
	}); err != nil {
		t.Fatalf("Could not connect to service: %s", err)
	}

	return service
}
