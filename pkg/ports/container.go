package ports

import (
	"context"
	"io"
)

// ContainerRuntime manages the container lifecycle consumed by
// containerized runs. Handles are opaque runtime identifiers.
type ContainerRuntime interface {
	// BuildImage builds an image from a build specification and returns
	// its identifier.
	BuildImage(ctx context.Context, spec string) (string, error)

	// StartContainer starts a long-lived container from an image and
	// returns its handle. It fails if the image no longer exists, in which
	// case callers rebuild.
	StartContainer(ctx context.Context, imageID string) (string, error)

	// Exec runs a shell command inside a started container, streaming
	// combined output to output, and returns the command's exit code.
	Exec(ctx context.Context, handle, cmd string, output io.Writer) (int, error)

	// StopContainer fixes up ownership of files written by the container
	// and tears it down.
	StopContainer(ctx context.Context, handle string) error
}
