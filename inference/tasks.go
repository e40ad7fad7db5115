package inference

import (
	"context"

	"github.com/petal-labs/hfgo/core"
)

// ChatCompletion sends a chat completion request. in.Stream is ignored;
// use ChatCompletionStream for streaming.
func (c *Client) ChatCompletion(ctx context.Context, in *core.ChatCompletionInput) (*core.ChatCompletionOutput, error) {
	if in == nil {
		return nil, core.InputError("nil chat completion input")
	}
	req := *in
	req.Stream = false
	return call[*core.ChatCompletionOutput](ctx, c, core.TaskConversational, in.Target, &req, nil)
}

// TextGeneration completes a raw prompt.
func (c *Client) TextGeneration(ctx context.Context, in *core.TextGenerationInput) (*core.TextGenerationOutput, error) {
	if in == nil {
		return nil, core.InputError("nil text generation input")
	}
	return call[*core.TextGenerationOutput](ctx, c, core.TaskTextGeneration, in.Target, in, nil)
}

// TextToImage generates an image from a prompt.
func (c *Client) TextToImage(ctx context.Context, in *core.TextToImageInput) (*core.Blob, error) {
	if in == nil {
		return nil, core.InputError("nil text-to-image input")
	}
	return call[*core.Blob](ctx, c, core.TaskTextToImage, in.Target, in, nil)
}

// FeatureExtraction embeds one text or a batch of texts.
func (c *Client) FeatureExtraction(ctx context.Context, in *core.FeatureExtractionInput) (core.FeatureExtractionOutput, error) {
	if in == nil {
		return nil, core.InputError("nil feature extraction input")
	}
	return call[core.FeatureExtractionOutput](ctx, c, core.TaskFeatureExtraction, in.Target, in, nil)
}

// ImageToText captions an image.
func (c *Client) ImageToText(ctx context.Context, in *core.ImageToTextInput) (*core.ImageToTextOutput, error) {
	if in == nil {
		return nil, core.InputError("nil image-to-text input")
	}
	return call[*core.ImageToTextOutput](ctx, c, core.TaskImageToText, in.Target, nil, &in.Data)
}

// TextToSpeech synthesizes speech. The returned blob holds the audio.
func (c *Client) TextToSpeech(ctx context.Context, in *core.TextToSpeechInput) (*core.Blob, error) {
	if in == nil {
		return nil, core.InputError("nil text-to-speech input")
	}
	return call[*core.Blob](ctx, c, core.TaskTextToSpeech, in.Target, in, nil)
}

// AutomaticSpeechRecognition transcribes audio.
func (c *Client) AutomaticSpeechRecognition(ctx context.Context, in *core.AutomaticSpeechRecognitionInput) (*core.AutomaticSpeechRecognitionOutput, error) {
	if in == nil {
		return nil, core.InputError("nil speech recognition input")
	}
	return call[*core.AutomaticSpeechRecognitionOutput](ctx, c, core.TaskAutomaticSpeechRecognition, in.Target, nil, &in.Data)
}
