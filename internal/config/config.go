package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"magiceye-renderer/internal/mathutil"
)

// Options holds every knob for a single stereogram render. A render
// treats its Options as an immutable snapshot; nothing in the pipeline
// writes back into it.
type Options struct {
	// Inputs and outputs
	MeshPath  string `yaml:"mesh"`
	TexPath   string `yaml:"texture"`
	OutPrefix string `yaml:"outprefix"`

	// Raster dimensions and maximum pixel separation
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	EyeSep int `yaml:"eye_sep"`

	// Camera. CamPos and LookAt are only honored when the matching
	// Provided flag is set; otherwise both are derived from the mesh
	// bounds.
	FOV            float64       `yaml:"fov"`
	Perspective    bool          `yaml:"perspective"`
	CamPos         mathutil.Vec3 `yaml:"cam_pos"`
	LookAt         mathutil.Vec3 `yaml:"look_at"`
	CamProvided    bool          `yaml:"cam_provided"`
	LookAtProvided bool          `yaml:"look_at_provided"`

	// Model transform, applied scale -> shear -> rotate -> translate
	RotDeg mathutil.Vec3 `yaml:"rot_deg"`
	Trans  mathutil.Vec3 `yaml:"translate"`
	Scale  mathutil.Vec3 `yaml:"scale"`
	Shear  mathutil.Vec3 `yaml:"shear"`

	// Orthographic framing. OrthoScale is only honored when
	// OrthoScaleProvided is set; otherwise the scale is derived from
	// the mesh span and the tune factors.
	OrthoScale         float64 `yaml:"ortho_scale"`
	OrthoScaleProvided bool    `yaml:"ortho_scale_provided"`
	OrthoTuneLow       float64 `yaml:"ortho_tune_low"`
	OrthoTuneHigh      float64 `yaml:"ortho_tune_high"`

	// Depth mapping. Larger depth values mean closer to the viewer, so
	// DepthNear is normally the larger of the pair.
	DepthNear    float64 `yaml:"depth_near"`
	DepthFar     float64 `yaml:"depth_far"`
	DepthGamma   float64 `yaml:"depth_gamma"`
	BgSeparation float64 `yaml:"bg_separation"`

	// Texture treatment
	TextureBrightness float64 `yaml:"texture_brightness"`
	TextureContrast   float64 `yaml:"texture_contrast"`
	TileTexture       bool    `yaml:"tile_texture"`
	FitTexture        bool    `yaml:"fit_texture"`

	// Stereogram linking
	ForegroundThreshold float64 `yaml:"foreground_threshold"`
	Occlusion           bool    `yaml:"occlusion"`
	OcclusionEpsilon    float64 `yaml:"occlusion_epsilon"`

	// Stereogram edge smoothing
	SmoothEdges     bool    `yaml:"smooth_edges"`
	SmoothThreshold float64 `yaml:"smooth_threshold"`
	SmoothWeight    float64 `yaml:"smooth_weight"`

	// Mesh smoothing before rasterization
	LaplaceSmoothing bool `yaml:"laplace_smoothing"`
	LaplaceLayers    int  `yaml:"laplace_layers"`
	LaplaceUniform   bool `yaml:"laplace_uniform"`

	// Floor ramp geometry
	AddFloor   bool    `yaml:"add_floor"`
	RampWidth  float64 `yaml:"ramp_width"`
	RampHeight float64 `yaml:"ramp_height"`

	// Depth post-processing
	Supersample         int     `yaml:"supersample"`
	FillHolePasses      int     `yaml:"fill_hole_passes"`
	BilateralPasses     int     `yaml:"bilateral_passes"`
	BilateralSigmaSpace float64 `yaml:"bilateral_sigma_space"`
	BilateralSigmaRange float64 `yaml:"bilateral_sigma_range"`

	// Output encoding and reproducibility. RngSeed below zero draws a
	// fresh nondeterministic seed per render.
	Format  string `yaml:"format"`
	RngSeed int64  `yaml:"rng_seed"`
}

// Default returns the options every render starts from.
func Default() *Options {
	return &Options{
		OutPrefix: "out",
		Width:     1280,
		Height:    800,
		EyeSep:    160,

		FOV:         45,
		Perspective: true,

		Scale: mathutil.Vec3{1, 1, 1},

		OrthoScale:    50,
		OrthoTuneLow:  0.6,
		OrthoTuneHigh: 1.2,

		DepthNear:    0.75,
		DepthFar:     0.1,
		DepthGamma:   1.0,
		BgSeparation: 0.3,

		TextureBrightness: 1.0,
		TextureContrast:   1.0,
		TileTexture:       true,

		ForegroundThreshold: 0.90,
		Occlusion:           true,
		OcclusionEpsilon:    0.02,

		SmoothEdges:     true,
		SmoothThreshold: 0.75,
		SmoothWeight:    6.0,

		LaplaceLayers: 15,

		AddFloor:   true,
		RampWidth:  2.5,
		RampHeight: 100.0,

		Supersample:         1,
		BilateralSigmaSpace: 2.0,
		BilateralSigmaRange: 0.1,

		Format:  "png",
		RngSeed: -1,
	}
}

// LoadFile merges a YAML settings file over opt. Keys absent from the
// file keep their current values, so defaults < file < flags layering
// falls out of the call order.
func LoadFile(opt *Options, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, opt); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the pipeline cannot render with.
func (o *Options) Validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("config: image size %dx%d must be positive", o.Width, o.Height)
	}
	if o.EyeSep < 2 {
		return fmt.Errorf("config: eye separation %d must be at least 2 pixels", o.EyeSep)
	}
	if o.DepthGamma <= 0 {
		return fmt.Errorf("config: depth gamma %g must be positive", o.DepthGamma)
	}
	if o.Perspective && (o.FOV <= 0 || o.FOV >= 180) {
		return fmt.Errorf("config: fov %g degrees out of range (0, 180)", o.FOV)
	}
	if o.Supersample < 1 {
		return fmt.Errorf("config: supersample factor %d must be at least 1", o.Supersample)
	}
	switch o.Format {
	case "png", "webp":
	default:
		return fmt.Errorf("config: unknown output format %q", o.Format)
	}
	return nil
}
