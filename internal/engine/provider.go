package engine

import "context"

// OperationProvider is the set of media operations a node can be routed to.
// Implementations talk to external services, may be slow, and must return a
// non-nil error instead of an empty value when an operation fails.
type OperationProvider interface {
	CombineText(ctx context.Context, texts []string) (string, error)
	TextToImage(ctx context.Context, prompt string) (string, error)
	TextToVideo(ctx context.Context, prompt string) (string, error)
	ImageEdit(ctx context.Context, prompt, image string) (string, error)
	ImageToVideo(ctx context.Context, image, prompt string) (string, error)
	// DescribeImage answers prompt about image, or describes it when prompt is empty.
	DescribeImage(ctx context.Context, image, prompt string) (string, error)
}
