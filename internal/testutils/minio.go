//go:build integration

package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioAccessKey = "minioadmin"
	minioSecretKey = "minioadmin"
)

// MinioEnv describes a running Minio server with one bucket.
type MinioEnv struct {
	Container testcontainers.Container
	Bucket    string
	BucketURL string
	Endpoint  string
}

// Close terminates the Minio container.
func (e *MinioEnv) Close(ctx context.Context) error {
	if e.Container != nil {
		return e.Container.Terminate(ctx)
	}
	return nil
}

// StartMinio starts a Minio container, creates bucket, and points the AWS
// credential environment at it for the rest of the test.
func StartMinio(t *testing.T, ctx context.Context, bucket string) *MinioEnv {
	t.Helper()

	networkName := fmt.Sprintf("shipfetch-minio-%d", time.Now().UnixNano())
	network, err := testcontainers.GenericNetwork(ctx, testcontainers.GenericNetworkRequest{
		NetworkRequest: testcontainers.NetworkRequest{Name: networkName},
	})
	if err != nil {
		t.Fatalf("create network: %v", err)
	}
	t.Cleanup(func() { network.Remove(ctx) })

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          "minio/minio:latest",
			ExposedPorts:   []string{"9000/tcp"},
			Networks:       []string{networkName},
			NetworkAliases: map[string][]string{networkName: {"minio"}},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioAccessKey,
				"MINIO_ROOT_PASSWORD": minioSecretKey,
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort("9000"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start minio container: %v", err)
	}

	makeBucket(t, ctx, networkName, bucket)

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "9000")
	if err != nil {
		t.Fatalf("get container port: %v", err)
	}
	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	t.Setenv("AWS_ACCESS_KEY_ID", minioAccessKey)
	t.Setenv("AWS_SECRET_ACCESS_KEY", minioSecretKey)

	return &MinioEnv{
		Container: container,
		Bucket:    bucket,
		BucketURL: fmt.Sprintf("s3://%s?endpoint=http://%s&use_path_style=true&disable_https=true&region=us-east-1",
			bucket, endpoint),
		Endpoint: endpoint,
	}
}

// makeBucket runs a one-shot mc container that creates bucket.
func makeBucket(t *testing.T, ctx context.Context, networkName, bucket string) {
	t.Helper()

	mc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      "minio/mc:latest",
			Networks:   []string{networkName},
			Entrypoint: []string{"/bin/sh", "-c"},
			Cmd: []string{fmt.Sprintf(
				"/usr/bin/mc alias set local http://minio:9000 %s %s && /usr/bin/mc mb local/%s; exit 0",
				minioAccessKey, minioSecretKey, bucket,
			)},
			WaitingFor: wait.ForExit(),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mc container: %v", err)
	}
	defer mc.Terminate(ctx)
}
