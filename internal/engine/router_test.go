package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOperation_Table(t *testing.T) {
	const img = "http://files/cat.png"

	tests := []struct {
		name  string
		kind  NodeKind
		texts []string
		image string
		want  OperationCall
	}{
		{"text combine", NodeKindText, []string{"a", "b"}, "", OperationCall{Op: OpCombineText, Texts: []string{"a", "b"}}},
		{"text combine ignores image", NodeKindText, []string{"a", "b"}, img, OperationCall{Op: OpCombineText, Texts: []string{"a", "b"}}},
		{"text image question", NodeKindText, []string{"what breed?"}, img, OperationCall{Op: OpImageQuestion, Image: img, Prompt: "what breed?"}},
		{"text describe", NodeKindText, nil, img, OperationCall{Op: OpDescribeImage, Image: img}},
		{"text passthrough", NodeKindText, []string{"hello"}, "", OperationCall{Op: OpPassthrough, Value: "hello"}},
		{"image from text", NodeKindImage, []string{"a sunset"}, "", OperationCall{Op: OpTextToImage, Prompt: "a sunset"}},
		{"image edit", NodeKindImage, []string{"make it blue"}, img, OperationCall{Op: OpImageEdit, Prompt: "make it blue", Image: img}},
		{"image passthrough", NodeKindImage, nil, img, OperationCall{Op: OpPassthrough, Value: img}},
		{"video from text", NodeKindVideo, []string{"waves"}, "", OperationCall{Op: OpTextToVideo, Prompt: "waves"}},
		{"video from image and text", NodeKindVideo, []string{"zoom in"}, img, OperationCall{Op: OpImageToVideo, Image: img, Prompt: "zoom in"}},
		{"video from image", NodeKindVideo, nil, img, OperationCall{Op: OpImageToVideo, Image: img, Prompt: DefaultMotionPrompt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := SelectOperation(&Node{ID: "n", Type: tt.kind}, tt.texts, tt.image)
			require.NoError(t, err)
			assert.Equal(t, tt.want, call)
		})
	}
}

func TestSelectOperation_NoValidInputs(t *testing.T) {
	tests := []struct {
		name    string
		kind    NodeKind
		texts   []string
		image   string
		message string
	}{
		{"text without anything", NodeKindText, nil, "", "Text node has no valid inputs"},
		{"image without anything", NodeKindImage, nil, "", "Image node has no valid inputs"},
		{"image with two texts", NodeKindImage, []string{"a", "b"}, "", "Image node has no valid inputs"},
		{"video without anything", NodeKindVideo, nil, "", "Video node has no valid inputs"},
		{"video with two texts", NodeKindVideo, []string{"a", "b"}, "x.png", "Video node has no valid inputs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SelectOperation(&Node{ID: "n", Type: tt.kind}, tt.texts, tt.image)
			require.Error(t, err)
			assert.EqualError(t, err, tt.message)
			assert.True(t, errors.Is(err, ErrNoValidInput))
		})
	}
}

func TestSelectOperation_UnknownKind(t *testing.T) {
	_, err := SelectOperation(&Node{ID: "n", Type: "audio"}, []string{"x"}, "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoValidInput))
}

func TestOperationCall_Invoke(t *testing.T) {
	ctx := context.Background()
	p := new(mockProvider)
	p.On("CombineText", ctx, []string{"a", "b"}).Return("ab", nil)
	p.On("DescribeImage", ctx, "img", "").Return("a cat", nil)
	p.On("DescribeImage", ctx, "img", "color?").Return("orange", nil)
	p.On("ImageEdit", ctx, "blue", "img").Return("edited", nil)
	p.On("ImageToVideo", ctx, "img", DefaultMotionPrompt).Return("clip", nil)

	calls := []struct {
		call OperationCall
		want string
	}{
		{OperationCall{Op: OpCombineText, Texts: []string{"a", "b"}}, "ab"},
		{OperationCall{Op: OpDescribeImage, Image: "img"}, "a cat"},
		{OperationCall{Op: OpImageQuestion, Image: "img", Prompt: "color?"}, "orange"},
		{OperationCall{Op: OpImageEdit, Image: "img", Prompt: "blue"}, "edited"},
		{OperationCall{Op: OpImageToVideo, Image: "img", Prompt: DefaultMotionPrompt}, "clip"},
		{OperationCall{Op: OpPassthrough, Value: "as is"}, "as is"},
	}

	for _, c := range calls {
		got, err := c.call.Invoke(ctx, p)
		require.NoError(t, err, string(c.call.Op))
		assert.Equal(t, c.want, got, string(c.call.Op))
	}
	p.AssertExpectations(t)
}

func TestResolveFileRef(t *testing.T) {
	const base = "http://localhost:8000"

	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"http://other/a.png", "http://other/a.png"},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"/uploads/a.png", base + "/uploads/a.png"},
		{"uploads/a.png", base + "/uploads/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFileRef(base, tt.ref))
		})
	}
}

func TestOperationCall_InvokeUnsupported(t *testing.T) {
	_, err := OperationCall{Op: "teleport"}.Invoke(context.Background(), new(mockProvider))
	assert.EqualError(t, err, `unsupported operation "teleport"`)
}
