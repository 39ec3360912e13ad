package integration

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	pgImage    = "postgres:16-alpine"
	pgUser     = "hms"
	pgPassword = "hms"
	pgDatabase = "hms_test"
)

// startPostgresContainer runs a throwaway postgres container via the Docker
// CLI and returns the connection string and a cleanup function. The data
// directory lives on tmpfs so the suite does not pay for disk fsyncs.
func startPostgresContainer(ctx context.Context) (string, func(), error) {
	port, err := freePort()
	if err != nil {
		return "", nil, fmt.Errorf("find free port: %w", err)
	}

	containerName := fmt.Sprintf("hms-it-pg-%d", port)
	exec.CommandContext(ctx, "docker", "rm", "-f", containerName).Run()

	cmd := exec.CommandContext(ctx, "docker", "run",
		"--name", containerName,
		"-d", "--rm",
		"-p", fmt.Sprintf("%d:5432", port),
		"-e", "POSTGRES_USER="+pgUser,
		"-e", "POSTGRES_PASSWORD="+pgPassword,
		"-e", "POSTGRES_DB="+pgDatabase,
		"--tmpfs", "/var/lib/postgresql/data",
		pgImage,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", nil, fmt.Errorf("docker run: %w\noutput: %s", err, string(output))
	}
	containerID := strings.TrimSpace(string(output))

	cleanup := func() {
		exec.Command("docker", "rm", "-f", containerID).Run()
	}

	connStr := fmt.Sprintf("postgres://%s:%s@localhost:%d/%s?sslmode=disable",
		pgUser, pgPassword, port, pgDatabase)
	if err := waitForPostgres(ctx, connStr, 30*time.Second); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("wait for postgres: %w", err)
	}

	return connStr, cleanup, nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// waitForPostgres polls with short-lived single connections until the server
// answers a round trip. Alpine postgres restarts once during init, so the
// first successful dial is not enough.
func waitForPostgres(ctx context.Context, connStr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}

		connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		conn, err := pgx.Connect(connCtx, connStr)
		if err == nil {
			err = conn.Ping(connCtx)
			conn.Close(connCtx)
		}
		cancel()
		if err == nil {
			return nil
		}

		time.Sleep(250 * time.Millisecond)
	}
	return fmt.Errorf("postgres not ready after %v", timeout)
}
