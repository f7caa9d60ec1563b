package domain

// DefaultPrice is charged for models without an explicit entry ($0.01).
const DefaultPrice = "10000"

// DefaultPricingPolicy returns the built-in per-model price table for the
// Hugging Face inference catalog.
func DefaultPricingPolicy() *PricingPolicy {
	endpoints := map[string]EndpointPricing{}
	for _, entry := range []struct {
		model, price, description string
	}{
		{"distilbert/distilbert-base-uncased-finetuned-sst-2-english", "1500", "Text classification (sentiment analysis)"},
		{"google/vit-base-patch16-224", "3000", "Image classification"},
		{"MIT/ast-finetuned-audioset-10-10-0.4593", "3000", "Audio classification"},
		{"facebook/detr-resnet-50", "7500", "Object detection with bounding boxes"},
		{"facebook/mask2former-swin-large-coco-panoptic", "15000", "Image segmentation"},
		{"sentence-transformers/all-MiniLM-L6-v2", "300", "Text embeddings"},
		{"thenlper/gte-large", "300", "Text embeddings"},
		{"black-forest-labs/FLUX.1-dev", "30000", "Text to image generation"},
		{"stabilityai/stable-diffusion-xl-base-1.0", "30000", "Text to image generation"},
		{"lllyasviel/control_v11p_sd15_canny", "30000", "Image to image transformation"},
		{"openai/whisper-large-v3", "15000", "Automatic speech recognition"},
		{"openai/whisper-small", "7500", "Automatic speech recognition (small)"},
		{"google-bert/bert-base-uncased", "750", "Fill mask token prediction"},
	} {
		endpoints[entry.model] = EndpointPricing{
			BasePrice:            entry.price,
			Description:          entry.description,
			ParameterMultipliers: nil,
			ParameterAdditions:   nil,
		}
	}

	return &PricingPolicy{
		DefaultPrice: DefaultPrice,
		Endpoints:    endpoints,
		Categories:   map[string]CategoryPricing{},
	}
}
