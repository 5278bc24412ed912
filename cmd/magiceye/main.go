package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"magiceye-renderer/internal/config"
	"magiceye-renderer/internal/logger"
	"magiceye-renderer/internal/mathutil"
	"magiceye-renderer/internal/render"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] input.stl texture.png|null outprefix\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  -w width             : Output width")
	fmt.Fprintln(os.Stderr, "  -h height            : Output height")
	fmt.Fprintln(os.Stderr, "  -sep eye_sep         : Eye separation in pixels")
	fmt.Fprintln(os.Stderr, "  -fov fov_deg         : Field of view in degrees")
	fmt.Fprintln(os.Stderr, "  -persp 0|1           : 1 for perspective, 0 for orthographic")
	fmt.Fprintln(os.Stderr, "  -cam x,y,z           : Camera position (default: auto)")
	fmt.Fprintln(os.Stderr, "  -look x,y,z          : Look-at point (default: auto)")
	fmt.Fprintln(os.Stderr, "  -rot x,y,z           : Rotate model (degrees, XYZ order)")
	fmt.Fprintln(os.Stderr, "  -trans x,y,z         : Translate model")
	fmt.Fprintln(os.Stderr, "  -sc x,y,z            : Scale model")
	fmt.Fprintln(os.Stderr, "  -shear x,y,z         : Shear model (XY,XZ,YZ)")
	fmt.Fprintln(os.Stderr, "  -orthsc scale        : Orthographic scale (default: auto)")
	fmt.Fprintln(os.Stderr, "  -orthtune lo,hi      : Orthographic scale tuning")
	fmt.Fprintln(os.Stderr, "  -depthrange near,far : Normalized depth range")
	fmt.Fprintln(os.Stderr, "  -depthgama g         : Depth gamma adjust")
	fmt.Fprintln(os.Stderr, "  -sepbg s             : Background separation scale")
	fmt.Fprintln(os.Stderr, "  -brightness val      : Texture brightness")
	fmt.Fprintln(os.Stderr, "  -contrast val        : Texture contrast")
	fmt.Fprintln(os.Stderr, "  -tile 0|1            : Tile the texture instead of stretching")
	fmt.Fprintln(os.Stderr, "  -texfit              : Resize texture width to the eye separation")
	fmt.Fprintln(os.Stderr, "  -fthresh t           : Foreground threshold (0-1)")
	fmt.Fprintln(os.Stderr, "  -occlusion 0|1       : Skip hidden-surface links")
	fmt.Fprintln(os.Stderr, "  -occeps e            : Occlusion depth epsilon")
	fmt.Fprintln(os.Stderr, "  -smoothedges 0|1     : Blend foreground edge colors")
	fmt.Fprintln(os.Stderr, "  -sthresh t           : Smooth threshold (0-1)")
	fmt.Fprintln(os.Stderr, "  -sweight w           : Smooth weight")
	fmt.Fprintln(os.Stderr, "  -laplace             : Enable Laplace mesh smoothing")
	fmt.Fprintln(os.Stderr, "  -laplacelayers n     : Laplace smooth layers")
	fmt.Fprintln(os.Stderr, "  -laplaceuniform      : Use the uniform smoother instead of Taubin")
	fmt.Fprintln(os.Stderr, "  -supersample n       : Depth render supersampling factor")
	fmt.Fprintln(os.Stderr, "  -fillholes n         : Depth hole-fill passes")
	fmt.Fprintln(os.Stderr, "  -bilateral n         : Depth bilateral smoothing passes")
	fmt.Fprintln(os.Stderr, "  -seed n              : RNG seed, negative for time-based")
	fmt.Fprintln(os.Stderr, "  -format png|webp     : Output image format")
	fmt.Fprintln(os.Stderr, "  -config file.yaml    : Load options from a YAML file")
	fmt.Fprintln(os.Stderr, "  -log level           : Log level (debug|info|warn|error)")
	fmt.Fprintln(os.Stderr, "  -logfile path        : Also log to a rotating file")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func parseVec3(flagName, s string) mathutil.Vec3 {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		fatalf("-%s wants x,y,z, got %q", flagName, s)
	}
	var v mathutil.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			fatalf("-%s component %q: %v", flagName, p, err)
		}
		v[i] = f
	}
	return v
}

func parsePair(flagName, s string) (float64, float64) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		fatalf("-%s wants two comma-separated values, got %q", flagName, s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		fatalf("-%s value %q: %v", flagName, parts[0], err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		fatalf("-%s value %q: %v", flagName, parts[1], err)
	}
	return a, b
}

func main() {
	width := flag.Int("w", 0, "output width")
	height := flag.Int("h", 0, "output height")
	eyeSep := flag.Int("sep", 0, "eye separation in pixels")
	fov := flag.Float64("fov", 0, "field of view in degrees")
	persp := flag.Int("persp", 1, "1 perspective, 0 orthographic")
	cam := flag.String("cam", "", "camera position x,y,z")
	look := flag.String("look", "", "look-at point x,y,z")
	rot := flag.String("rot", "", "rotation in degrees x,y,z")
	trans := flag.String("trans", "", "translation x,y,z")
	sc := flag.String("sc", "", "scale x,y,z")
	shear := flag.String("shear", "", "shear xy,xz,yz")
	orthsc := flag.Float64("orthsc", 0, "orthographic scale")
	orthtune := flag.String("orthtune", "", "ortho tuning lo,hi")
	depthrange := flag.String("depthrange", "", "depth range near,far")
	depthgama := flag.Float64("depthgama", 0, "depth gamma")
	sepbg := flag.Float64("sepbg", 0, "background separation scale")
	brightness := flag.Float64("brightness", 0, "texture brightness")
	contrast := flag.Float64("contrast", 0, "texture contrast")
	tile := flag.Int("tile", 1, "tile texture")
	texfit := flag.Bool("texfit", false, "fit texture width to eye separation")
	fthresh := flag.Float64("fthresh", 0, "foreground threshold")
	occlusion := flag.Int("occlusion", 1, "occlusion gate")
	occeps := flag.Float64("occeps", 0, "occlusion epsilon")
	smoothedges := flag.Int("smoothedges", 1, "edge smoothing")
	sthresh := flag.Float64("sthresh", 0, "smooth threshold")
	sweight := flag.Float64("sweight", 0, "smooth weight")
	laplace := flag.Bool("laplace", false, "enable Laplace smoothing")
	laplacelayers := flag.Int("laplacelayers", 0, "Laplace smooth layers")
	laplaceuniform := flag.Bool("laplaceuniform", false, "uniform smoother instead of Taubin")
	supersample := flag.Int("supersample", 0, "depth supersampling factor")
	fillholes := flag.Int("fillholes", 0, "depth hole-fill passes")
	bilateral := flag.Int("bilateral", 0, "depth bilateral passes")
	seed := flag.Int64("seed", 0, "rng seed, negative for time-based")
	format := flag.String("format", "", "output format png|webp")
	configPath := flag.String("config", "", "YAML options file")
	logLevel := flag.String("log", "info", "log level")
	logFile := flag.String("logfile", "", "rotating log file path")

	flag.Usage = usage
	flag.Parse()

	opt := config.Default()
	if *configPath != "" {
		if err := config.LoadFile(opt, *configPath); err != nil {
			fatalf("%v", err)
		}
	}

	// Only flags the user actually passed override the file layer.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			opt.Width = *width
		case "h":
			opt.Height = *height
		case "sep":
			opt.EyeSep = *eyeSep
		case "fov":
			opt.FOV = *fov
		case "persp":
			opt.Perspective = *persp != 0
		case "cam":
			opt.CamPos = parseVec3("cam", *cam)
			opt.CamProvided = true
		case "look":
			opt.LookAt = parseVec3("look", *look)
			opt.LookAtProvided = true
		case "rot":
			opt.RotDeg = parseVec3("rot", *rot)
		case "trans":
			opt.Trans = parseVec3("trans", *trans)
		case "sc":
			opt.Scale = parseVec3("sc", *sc)
		case "shear":
			opt.Shear = parseVec3("shear", *shear)
		case "orthsc":
			opt.OrthoScale = *orthsc
			opt.OrthoScaleProvided = true
		case "orthtune":
			opt.OrthoTuneLow, opt.OrthoTuneHigh = parsePair("orthtune", *orthtune)
		case "depthrange":
			opt.DepthNear, opt.DepthFar = parsePair("depthrange", *depthrange)
		case "depthgama":
			opt.DepthGamma = *depthgama
		case "sepbg":
			opt.BgSeparation = *sepbg
		case "brightness":
			opt.TextureBrightness = *brightness
		case "contrast":
			opt.TextureContrast = *contrast
		case "tile":
			opt.TileTexture = *tile != 0
		case "texfit":
			opt.FitTexture = *texfit
		case "fthresh":
			opt.ForegroundThreshold = *fthresh
		case "occlusion":
			opt.Occlusion = *occlusion != 0
		case "occeps":
			opt.OcclusionEpsilon = *occeps
		case "smoothedges":
			opt.SmoothEdges = *smoothedges != 0
		case "sthresh":
			opt.SmoothThreshold = *sthresh
		case "sweight":
			opt.SmoothWeight = *sweight
		case "laplace":
			opt.LaplaceSmoothing = *laplace
		case "laplacelayers":
			opt.LaplaceLayers = *laplacelayers
		case "laplaceuniform":
			opt.LaplaceUniform = *laplaceuniform
		case "supersample":
			opt.Supersample = *supersample
		case "fillholes":
			opt.FillHolePasses = *fillholes
		case "bilateral":
			opt.BilateralPasses = *bilateral
		case "seed":
			opt.RngSeed = *seed
		case "format":
			opt.Format = *format
		}
	})

	switch flag.NArg() {
	case 3:
		opt.MeshPath = flag.Arg(0)
		opt.TexPath = flag.Arg(1)
		opt.OutPrefix = flag.Arg(2)
	case 0:
		// A config file may carry the paths instead.
		if *configPath == "" || opt.MeshPath == "" || opt.OutPrefix == "" {
			usage()
			os.Exit(2)
		}
	default:
		usage()
		os.Exit(2)
	}

	if err := logger.Init(*logLevel, *logFile); err != nil {
		fatalf("logger: %v", err)
	}
	defer logger.Sync()

	runner := render.Runner{Log: logger.Log}

	start := time.Now()
	stats, err := runner.Run(opt)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Triangles: %d\n", stats.Triangles)
	fmt.Printf("Depth zmin=%.3f zmax=%.3f focus=%.2f\n", stats.ZMin, stats.ZMax, stats.FocusDepth)
	fmt.Printf("Wrote %s\n", stats.DepthPath)
	fmt.Printf("Wrote %s\n", stats.OutputPath)
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())
}
