package engine

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CombineText(ctx context.Context, texts []string) (string, error) {
	args := m.Called(ctx, texts)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) TextToImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) TextToVideo(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) ImageEdit(ctx context.Context, prompt, image string) (string, error) {
	args := m.Called(ctx, prompt, image)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) ImageToVideo(ctx context.Context, image, prompt string) (string, error) {
	args := m.Called(ctx, image, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) DescribeImage(ctx context.Context, image, prompt string) (string, error) {
	args := m.Called(ctx, image, prompt)
	return args.String(0), args.Error(1)
}

// stubProvider answers every operation with a fixed value, or panics when
// panicOn matches the operation name.
type stubProvider struct {
	value   string
	panicOn string
}

func (s stubProvider) answer(op string) (string, error) {
	if s.panicOn == op {
		panic("provider exploded")
	}
	return s.value, nil
}

func (s stubProvider) CombineText(context.Context, []string) (string, error) {
	return s.answer("combine")
}

func (s stubProvider) TextToImage(context.Context, string) (string, error) {
	return s.answer("text_to_image")
}

func (s stubProvider) TextToVideo(context.Context, string) (string, error) {
	return s.answer("text_to_video")
}

func (s stubProvider) ImageEdit(context.Context, string, string) (string, error) {
	return s.answer("image_edit")
}

func (s stubProvider) ImageToVideo(context.Context, string, string) (string, error) {
	return s.answer("image_to_video")
}

func (s stubProvider) DescribeImage(context.Context, string, string) (string, error) {
	return s.answer("describe")
}

func textNode(id, text string) Node {
	return Node{ID: id, Type: NodeKindText, Data: NodeData{Text: text}}
}

func imageNode(id, fileURL string) Node {
	return Node{ID: id, Type: NodeKindImage, Data: NodeData{FileURL: fileURL}}
}

func videoNode(id, fileURL string) Node {
	return Node{ID: id, Type: NodeKindVideo, Data: NodeData{FileURL: fileURL}}
}

func edge(source, target string) Edge {
	return Edge{ID: source + "-" + target, Source: source, Target: target}
}
