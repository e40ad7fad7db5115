package agents

import (
	"context"
	"errors"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference"
	"github.com/petal-labs/hfgo/providers/hfinference"
)

// Models behind the default tools.
const (
	TextToImageModel  = "stabilityai/stable-diffusion-2"
	ImageToTextModel  = "nlpconnect/vit-gpt2-image-captioning"
	TextToSpeechModel = "espnet/kan-bayashi_ljspeech_vits"
	SpeechToTextModel = "openai/whisper-tiny.en"
)

var (
	errNeedsText = errors.New("tool input must be text")
	errNeedsBlob = errors.New("tool input must be binary data")
)

func hfInference(model string) core.Target {
	return core.Target{Model: model, Provider: hfinference.Provider}
}

// DefaultTools returns the built-in tools: textToImage, imageToText,
// textToSpeech and speechToText.
func DefaultTools() []Tool {
	return []Tool{
		NewTool("textToImage",
			"This tool creates an image from a text prompt. It returns the image.",
			[]Example{{
				Prompt: "Generate an image of a cat wearing a hat",
				Plan:   `[{"tool": "textToImage", "input": "a cat wearing a hat", "output": "image"}, {"message": "Here is your image", "data": "$image"}]`,
				Tools:  []string{"textToImage"},
			}},
			func(ctx context.Context, in Data, client *inference.Client) (Data, error) {
				if in.Text == "" {
					return Data{}, errNeedsText
				}
				blob, err := client.TextToImage(ctx, &core.TextToImageInput{Target: hfInference(TextToImageModel), Inputs: in.Text})
				if err != nil {
					return Data{}, err
				}
				return Data{Blob: blob}, nil
			}),

		NewTool("imageToText",
			"This tool can be used to generate a caption from an image. It takes an image and returns text.",
			[]Example{{
				Prompt: "Describe the image",
				Plan:   `[{"tool": "imageToText", "input": "$image", "output": "caption"}, {"message": "The image shows", "data": "$caption"}]`,
				Tools:  []string{"imageToText"},
			}},
			func(ctx context.Context, in Data, client *inference.Client) (Data, error) {
				if in.Blob == nil || in.Blob.IsEmpty() {
					return Data{}, errNeedsBlob
				}
				out, err := client.ImageToText(ctx, &core.ImageToTextInput{Target: hfInference(ImageToTextModel), Data: *in.Blob})
				if err != nil {
					return Data{}, err
				}
				return Data{Text: out.GeneratedText}, nil
			}),

		NewTool("textToSpeech",
			"This tool can be used to generate speech from a string. It returns audio.",
			[]Example{{
				Prompt: "Say 'hello world' out loud",
				Plan:   `[{"tool": "textToSpeech", "input": "hello world", "output": "speech"}, {"message": "Here is the audio", "data": "$speech"}]`,
				Tools:  []string{"textToSpeech"},
			}},
			func(ctx context.Context, in Data, client *inference.Client) (Data, error) {
				if in.Text == "" {
					return Data{}, errNeedsText
				}
				blob, err := client.TextToSpeech(ctx, &core.TextToSpeechInput{Target: hfInference(TextToSpeechModel), Inputs: in.Text})
				if err != nil {
					return Data{}, err
				}
				return Data{Blob: blob}, nil
			}),

		NewTool("speechToText",
			"This tool can be used to transcribe speech to text. It takes audio and returns text.",
			[]Example{{
				Prompt: "Transcribe the audio file",
				Plan:   `[{"tool": "speechToText", "input": "$audio", "output": "transcript"}, {"message": "The transcript is", "data": "$transcript"}]`,
				Tools:  []string{"speechToText"},
			}},
			func(ctx context.Context, in Data, client *inference.Client) (Data, error) {
				if in.Blob == nil || in.Blob.IsEmpty() {
					return Data{}, errNeedsBlob
				}
				out, err := client.AutomaticSpeechRecognition(ctx, &core.AutomaticSpeechRecognitionInput{
					Target: hfInference(SpeechToTextModel),
					Data:   *in.Blob,
				})
				if err != nil {
					return Data{}, err
				}
				return Data{Text: out.Text}, nil
			}),
	}
}
