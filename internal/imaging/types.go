package imaging

// one resolution/quality rendition of a generated image
type Variant struct {
	URL       string `json:"url"` // self-contained JPEG data URI
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Quality   int    `json:"quality"`
	SizeBytes int    `json:"size_bytes"`
}

// the three variants derived from one source image, immutable once built
type Variants struct {
	Small  Variant `json:"small"`
	Medium Variant `json:"medium"`
	Large  Variant `json:"large"`
}

// resize/encode targets for a single variant
type VariantTarget struct {
	Size      int // square pixel dimension
	Quality   int // starting JPEG quality
	MaxSizeKB int // byte budget; 0 disables the size search
}

// the full set of targets derived from one tier's knobs
type OptimizationConfig struct {
	Small  VariantTarget
	Medium VariantTarget
	Large  VariantTarget

	// floor for the iterative quality reduction
	MinQuality int

	// search toward the byte budget by lowering quality
	DynamicQuality bool
	MaxIterations  int
}
