// Package render drives a full stereogram job: mesh in, depth map and
// stereogram image out.
package render

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"magiceye-renderer/internal/camera"
	"magiceye-renderer/internal/config"
	"magiceye-renderer/internal/depthmap"
	"magiceye-renderer/internal/imageio"
	"magiceye-renderer/internal/mathutil"
	"magiceye-renderer/internal/meshio"
	"magiceye-renderer/internal/sirds"
	"magiceye-renderer/internal/texture"
)

// Stats summarizes one finished render.
type Stats struct {
	Triangles   int     `json:"triangles"`
	Span        float64 `json:"span"`
	ZMin        float64 `json:"zmin"`
	ZMax        float64 `json:"zmax"`
	FocusDepth  float64 `json:"focus_depth"`
	DepthMean   float64 `json:"depth_mean"`
	DepthStdDev float64 `json:"depth_stddev"`
	DepthPath   string  `json:"depth_path"`
	OutputPath  string  `json:"output_path"`
}

// Runner renders stereograms. The zero value works; Log defaults to a
// no-op logger and Textures to uncached loads.
type Runner struct {
	Log      *zap.Logger
	Textures *texture.Cache
}

func (r *Runner) logger() *zap.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zap.NewNop()
}

// Run executes the whole pipeline for one option set: load, normalize,
// transform, smooth, floor, depth render, stereogram synthesis, and the
// two image writes.
func (r *Runner) Run(opt *config.Options) (*Stats, error) {
	if opt == nil {
		return nil, fmt.Errorf("render: options must not be nil")
	}
	if err := opt.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	log := r.logger()

	m, err := meshio.Load(opt.MeshPath)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	m.NormalizeAndCenter()
	log.Info("loaded mesh",
		zap.String("path", opt.MeshPath),
		zap.Int("triangles", m.TriangleCount()))

	// Model transforms apply in a fixed order around the origin.
	m.Scale(opt.Scale[0], opt.Scale[1], opt.Scale[2])
	m.Shear(opt.Shear[0], opt.Shear[1], opt.Shear[2])
	m.RotateEuler(opt.RotDeg[0], opt.RotDeg[1], opt.RotDeg[2], mathutil.Vec3{})
	m.Translate(opt.Trans[0], opt.Trans[1], opt.Trans[2])

	if opt.LaplaceSmoothing && opt.LaplaceLayers > 0 {
		if opt.LaplaceUniform {
			m.SmoothUniform(opt.LaplaceLayers, 0.4)
		} else {
			m.SmoothTaubin(opt.LaplaceLayers, 0.5, -0.53)
		}
		log.Debug("smoothed mesh", zap.Int("layers", opt.LaplaceLayers))
	}

	center, span := m.CenterSpan()

	// The floor joins the scene after the bounds are taken, so the camera
	// frames the model alone.
	if opt.AddFloor && opt.RampWidth > 0 && opt.RampHeight > 0 {
		m.AddFloorRamp(center, span, opt.RampWidth, opt.RampHeight)
	}

	cam := setupCamera(opt, center, span)
	orthoScale := computeOrthoScale(opt, span)

	stats := &Stats{Triangles: m.TriangleCount(), Span: span}

	rw := opt.Width * opt.Supersample
	rh := opt.Height * opt.Supersample
	dm, zmin, zmax := depthmap.Generate(m, rw, rh, cam, orthoScale,
		opt.DepthNear, opt.DepthFar, opt.BgSeparation)
	stats.ZMin = zmin
	stats.ZMax = zmax
	if math.IsInf(zmin, 0) {
		log.Warn("no geometry reached the depth buffer", zap.String("mesh", opt.MeshPath))
	} else {
		log.Info("depth map rendered",
			zap.Float64("zmin", zmin),
			zap.Float64("zmax", zmax),
			zap.Int("width", rw),
			zap.Int("height", rh))
	}

	if opt.FillHolePasses > 0 {
		depthmap.FillHoles(dm, opt.FillHolePasses)
	}
	if opt.BilateralPasses > 0 {
		depthmap.BilateralSmooth(dm, opt.BilateralSigmaSpace, opt.BilateralSigmaRange, opt.BilateralPasses)
	}
	if opt.Supersample > 1 {
		dm = depthmap.Downsample(dm, opt.Supersample)
	}

	stats.FocusDepth = sirds.EstimateFocusDepth(dm.Data)
	stats.DepthMean, stats.DepthStdDev = stat.MeanStdDev(dm.Data, nil)

	stats.DepthPath = outPath(opt, "depth")
	vis := imageio.DepthToRGB(dm.Data, opt.Width, opt.Height)
	if err := imageio.WriteRGB(stats.DepthPath, vis, opt.Width, opt.Height); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	log.Info("wrote depth visualization", zap.String("path", stats.DepthPath))

	tex, err := r.loadTexture(opt)
	if err != nil {
		return nil, err
	}
	if tex == nil {
		log.Info("using random-dot texture")
	} else {
		log.Info("loaded texture",
			zap.String("path", opt.TexPath),
			zap.Int("width", tex.Width),
			zap.Int("height", tex.Height))
	}

	rgb, err := sirds.Generate(dm.Data, opt.Width, opt.Height, tex, opt)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	stats.OutputPath = outPath(opt, "sirds")
	if err := imageio.WriteRGB(stats.OutputPath, rgb, opt.Width, opt.Height); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	log.Info("wrote stereogram", zap.String("path", stats.OutputPath))

	return stats, nil
}

// loadTexture resolves the texture for a job. An empty path or the
// literal "null" selects random-dot synthesis.
func (r *Runner) loadTexture(opt *config.Options) (*texture.Texture, error) {
	if opt.TexPath == "" || opt.TexPath == "null" {
		return nil, nil
	}

	var (
		tex *texture.Texture
		err error
	)
	if r.Textures != nil {
		tex, err = r.Textures.Load(opt.TexPath)
	} else {
		tex, err = texture.Load(opt.TexPath)
	}
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	if opt.FitTexture {
		tex = texture.FitToSeparation(tex, opt.EyeSep)
	}
	return tex, nil
}

func setupCamera(opt *config.Options, center mathutil.Vec3, span float64) camera.Camera {
	cam := camera.Default()
	cam.FOVDeg = opt.FOV
	cam.Perspective = opt.Perspective

	if opt.CamProvided {
		cam.Position = opt.CamPos
	} else {
		cam.Position = mathutil.Vec3{center[0], center[1], center[2] + span*2.5}
	}
	if opt.LookAtProvided {
		cam.LookAt = opt.LookAt
	} else {
		cam.LookAt = center
	}
	return cam
}

func computeOrthoScale(opt *config.Options, span float64) float64 {
	if opt.OrthoScaleProvided {
		return opt.OrthoScale
	}
	aspect := float64(opt.Width) / float64(max(1, opt.Height))
	return span * opt.OrthoTuneLow * math.Max(1.0/aspect, 1.0) * opt.OrthoTuneHigh
}

func outPath(opt *config.Options, kind string) string {
	ext := opt.Format
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("%s_%s.%s", opt.OutPrefix, kind, ext)
}
