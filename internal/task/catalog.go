package task

import "github.com/davidbz/tollgate/internal/domain"

// Task names.
const (
	ImageClassification = "image-classification"
	TextClassification  = "text-classification"
	AudioClassification = "audio-classification"
	ObjectDetection     = "object-detection"
	ImageSegmentation   = "image-segmentation"
	Embeddings          = "embeddings"
	TextToImage         = "text-to-image"
	ImageToImage        = "image-to-image"
	SpeechToText        = "speech-to-text"
	FillMask            = "fill-mask"
)

// MaskToken must appear in fill-mask inputs.
const MaskToken = "[MASK]"

const labelsWithScores = "labels with confidence scores"

// DefaultTasks returns the tasks with fixed, predictable cost.
func DefaultTasks() []domain.Task {
	return []domain.Task{
		{
			Name:         ImageClassification,
			Description:  "Classify images into predefined categories",
			InputType:    "image",
			OutputType:   labelsWithScores,
			DefaultModel: "google/vit-base-patch16-224",
			Input:        domain.InputBinary,
		},
		{
			Name:         TextClassification,
			Description:  "Classify text (sentiment analysis, topic classification)",
			InputType:    "text",
			OutputType:   labelsWithScores,
			DefaultModel: "distilbert/distilbert-base-uncased-finetuned-sst-2-english",
			Input:        domain.InputJSON,
		},
		{
			Name:         AudioClassification,
			Description:  "Classify audio into categories (speech, music, etc.)",
			InputType:    "audio",
			OutputType:   labelsWithScores,
			DefaultModel: "MIT/ast-finetuned-audioset-10-10-0.4593",
			Input:        domain.InputBinary,
		},
		{
			Name:         ObjectDetection,
			Description:  "Detect objects in images with bounding boxes",
			InputType:    "image",
			OutputType:   "detected objects with bounding boxes",
			DefaultModel: "facebook/detr-resnet-50",
			Input:        domain.InputBinary,
		},
		{
			Name:         ImageSegmentation,
			Description:  "Segment images into distinct regions",
			InputType:    "image",
			OutputType:   "segmentation masks",
			DefaultModel: "facebook/mask2former-swin-large-coco-panoptic",
			Input:        domain.InputBinary,
		},
		{
			Name:         Embeddings,
			Description:  "Generate vector embeddings for text",
			InputType:    "text or text array",
			OutputType:   "embedding vectors",
			DefaultModel: "thenlper/gte-large",
			Input:        domain.InputJSON,
		},
		{
			Name:         TextToImage,
			Description:  "Generate images from text prompts",
			InputType:    "text prompt",
			OutputType:   "generated image",
			DefaultModel: "black-forest-labs/FLUX.1-dev",
			Input:        domain.InputJSON,
			BinaryOutput: true,
		},
		{
			Name:         ImageToImage,
			Description:  "Transform images using AI models",
			InputType:    "image with optional prompt",
			OutputType:   "transformed image",
			DefaultModel: "lllyasviel/control_v11p_sd15_canny",
			Input:        domain.InputBinary,
			BinaryOutput: true,
		},
		{
			Name:         SpeechToText,
			Description:  "Transcribe audio to text",
			InputType:    "audio",
			OutputType:   "transcribed text",
			DefaultModel: "openai/whisper-large-v3",
			Input:        domain.InputBinary,
		},
		{
			Name:          FillMask,
			Description:   "Predict masked tokens in text",
			InputType:     "text with [MASK] token",
			OutputType:    "predicted tokens with scores",
			DefaultModel:  "google-bert/bert-base-uncased",
			Input:         domain.InputJSON,
			RequiredToken: MaskToken,
		},
	}
}

// DefaultProhibited returns tasks whose output size, and so cost, is unpredictable.
func DefaultProhibited() map[string]string {
	return map[string]string{
		"chat-completion":    "Output token count varies based on conversation",
		"text-generation":    "Output length is unpredictable",
		"summarization":      "Summary length depends on input content",
		"translation":        "Translated text length varies",
		"question-answering": "Answer length is unpredictable",
		"text-to-video":      "Video duration and complexity vary",
	}
}
