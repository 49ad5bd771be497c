package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultMotionPrompt drives image-to-video when a video node has no text input.
const DefaultMotionPrompt = "Create a video from this image with natural movement"

// ErrNoValidInput is matched by every routing failure.
var ErrNoValidInput = errors.New("no valid inputs")

// RoutingError is returned when a node's inputs match no routing rule.
type RoutingError struct {
	Kind NodeKind
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("%s node has no valid inputs", e.Kind.Title())
}

func (e *RoutingError) Is(target error) bool {
	return target == ErrNoValidInput
}

type Operation string

const (
	OpCombineText   Operation = "combine_text"
	OpImageQuestion Operation = "image_question_answer"
	OpDescribeImage Operation = "describe_image"
	OpPassthrough   Operation = "passthrough"
	OpTextToImage   Operation = "text_to_image"
	OpImageEdit     Operation = "image_edit"
	OpTextToVideo   Operation = "text_to_video"
	OpImageToVideo  Operation = "image_to_video"
)

// OperationCall is the routing decision for one node: which operation to run
// and with which arguments.
type OperationCall struct {
	Op     Operation
	Texts  []string
	Prompt string
	Image  string
	// Value is returned as is by OpPassthrough.
	Value string
}

// SelectOperation maps a node kind and its gathered inputs to an operation.
// It is a pure decision table; see Invoke for the provider call.
func SelectOperation(node *Node, texts []string, image string) (OperationCall, error) {
	hasImage := image != ""

	switch node.Type {
	case NodeKindText:
		switch {
		case len(texts) > 1:
			return OperationCall{Op: OpCombineText, Texts: texts}, nil
		case len(texts) == 1 && hasImage:
			return OperationCall{Op: OpImageQuestion, Image: image, Prompt: texts[0]}, nil
		case len(texts) == 0 && hasImage:
			return OperationCall{Op: OpDescribeImage, Image: image}, nil
		case len(texts) == 1:
			return OperationCall{Op: OpPassthrough, Value: texts[0]}, nil
		}

	case NodeKindImage:
		switch {
		case len(texts) == 1 && !hasImage:
			return OperationCall{Op: OpTextToImage, Prompt: texts[0]}, nil
		case len(texts) == 1 && hasImage:
			return OperationCall{Op: OpImageEdit, Prompt: texts[0], Image: image}, nil
		case len(texts) == 0 && hasImage:
			return OperationCall{Op: OpPassthrough, Value: image}, nil
		}

	case NodeKindVideo:
		switch {
		case len(texts) == 1 && !hasImage:
			return OperationCall{Op: OpTextToVideo, Prompt: texts[0]}, nil
		case len(texts) == 1 && hasImage:
			return OperationCall{Op: OpImageToVideo, Image: image, Prompt: texts[0]}, nil
		case len(texts) == 0 && hasImage:
			return OperationCall{Op: OpImageToVideo, Image: image, Prompt: DefaultMotionPrompt}, nil
		}

	default:
		return OperationCall{}, fmt.Errorf("unknown node type: %s", node.Type)
	}

	return OperationCall{}, &RoutingError{Kind: node.Type}
}

// Invoke runs the call against p.
func (c OperationCall) Invoke(ctx context.Context, p OperationProvider) (string, error) {
	switch c.Op {
	case OpCombineText:
		return p.CombineText(ctx, c.Texts)
	case OpImageQuestion:
		return p.DescribeImage(ctx, c.Image, c.Prompt)
	case OpDescribeImage:
		return p.DescribeImage(ctx, c.Image, "")
	case OpPassthrough:
		return c.Value, nil
	case OpTextToImage:
		return p.TextToImage(ctx, c.Prompt)
	case OpImageEdit:
		return p.ImageEdit(ctx, c.Prompt, c.Image)
	case OpTextToVideo:
		return p.TextToVideo(ctx, c.Prompt)
	case OpImageToVideo:
		return p.ImageToVideo(ctx, c.Image, c.Prompt)
	default:
		return "", fmt.Errorf("unsupported operation %q", c.Op)
	}
}

// ResolveFileRef turns a relative file reference into an absolute address
// under baseURL. Absolute http(s) and data: references are returned unchanged.
func ResolveFileRef(baseURL, ref string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http"), strings.HasPrefix(ref, "data:"):
		return ref
	case strings.HasPrefix(ref, "/"):
		return baseURL + ref
	default:
		return baseURL + "/" + ref
	}
}
