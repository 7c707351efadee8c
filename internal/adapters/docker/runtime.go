// Package docker implements the container runtime port against a local
// Docker daemon.
package docker

import (
	"archive/tar"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	dockerclient "github.com/fsouza/go-dockerclient"
)

// Runtime implements ports.ContainerRuntime using the Docker Engine API.
type Runtime struct {
	client *dockerclient.Client
	logger *slog.Logger
}

// New creates a Runtime from the environment (DOCKER_HOST and friends).
func New(logger *slog.Logger) (*Runtime, error) {
	client, err := dockerclient.NewClientFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Runtime{client: client, logger: logger}, nil
}

// NewFromClient creates a Runtime from an existing client.
func NewFromClient(client *dockerclient.Client, logger *slog.Logger) *Runtime {
	return &Runtime{client: client, logger: logger}
}

// BuildImage builds an image from the build specification, sent to the
// daemon as the Dockerfile of an in-memory tar context. The image is
// tagged by spec hash so repeated builds of the same spec are cheap.
func (r *Runtime) BuildImage(ctx context.Context, spec string) (string, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{
		Name: "Dockerfile",
		Size: int64(len(spec)),
		Mode: 0644,
	}); err != nil {
		return "", fmt.Errorf("failed to write build context: %w", err)
	}
	if _, err := tw.Write([]byte(spec)); err != nil {
		return "", fmt.Errorf("failed to write build context: %w", err)
	}
	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize build context: %w", err)
	}

	sum := sha1.Sum([]byte(spec))
	name := "runfile:" + hex.EncodeToString(sum[:])[:12]

	r.logger.Debug("building image", "name", name)
	err := r.client.BuildImage(dockerclient.BuildImageOptions{
		Name:           name,
		InputStream:    &buf,
		OutputStream:   io.Discard,
		RmTmpContainer: true,
		Context:        ctx,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build image: %w", err)
	}
	return name, nil
}

// StartContainer starts a keepalive container for the image, with the
// working directory bound at /work and the host filesystem root readable
// at /host for step files.
func (r *Runtime) StartContainer(ctx context.Context, imageID string) (string, error) {
	if _, err := r.client.InspectImage(imageID); err != nil {
		return "", fmt.Errorf("image %s unavailable: %w", imageID, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	hostConfig := &dockerclient.HostConfig{
		Binds: []string{
			cwd + ":/work:rw",
			"/tmp:/host/tmp:rw",
		},
	}
	ctn, err := r.client.CreateContainer(dockerclient.CreateContainerOptions{
		Config: &dockerclient.Config{
			Image:      imageID,
			Cmd:        []string{"/bin/cat"},
			Tty:        true,
			WorkingDir: "/work",
		},
		HostConfig: hostConfig,
		Context:    ctx,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}
	if err := r.client.StartContainer(ctn.ID, hostConfig); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}
	r.logger.Debug("started container", "image", imageID, "container", ctn.ID)
	return ctn.ID, nil
}

// Exec runs a shell command inside the container and returns its exit
// code, streaming combined output.
func (r *Runtime) Exec(ctx context.Context, handle, cmd string, output io.Writer) (int, error) {
	exec, err := r.client.CreateExec(dockerclient.CreateExecOptions{
		Container:    handle,
		Cmd:          []string{"/bin/sh", "-c", cmd},
		AttachStdout: true,
		AttachStderr: true,
		Context:      ctx,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create exec: %w", err)
	}
	err = r.client.StartExec(exec.ID, dockerclient.StartExecOptions{
		OutputStream: output,
		ErrorStream:  output,
		Context:      ctx,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to start exec: %w", err)
	}
	inspect, err := r.client.InspectExec(exec.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect exec: %w", err)
	}
	return inspect.ExitCode, nil
}

// StopContainer fixes up ownership of files the container wrote into the
// bound working directory, then kills it.
func (r *Runtime) StopContainer(ctx context.Context, handle string) error {
	chown := fmt.Sprintf("chown -R %d:%d /work", os.Getuid(), os.Getgid())
	if _, err := r.Exec(ctx, handle, chown, io.Discard); err != nil {
		r.logger.Warn("ownership fix-up failed", "container", handle, "err", err)
	}
	if err := r.client.KillContainer(dockerclient.KillContainerOptions{
		ID:      handle,
		Context: ctx,
	}); err != nil {
		return fmt.Errorf("failed to kill container: %w", err)
	}
	return nil
}
