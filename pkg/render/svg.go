package render

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/chewxy/math32"

	"github.com/packlab/rollpack/pkg/geometry"
	"github.com/packlab/rollpack/pkg/pack"
)

// Viewport defaults.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// rgb is a linear color used for flat shading.
type rgb struct {
	r, g, b float32
}

func (c rgb) scale(f float32) rgb {
	return rgb{c.r * f, c.g * f, c.b * f}
}

func (c rgb) hex() string {
	clamp := func(v float32) int {
		return int(math32.Min(math32.Max(v, 0), 1)*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.r), clamp(c.g), clamp(c.b))
}

// patchColors maps geometry patch names to base colors: paper for the
// wound surfaces, cardboard tones for the core, a darker bore.
var patchColors = map[string]rgb{
	geometry.PatchOuter:        {0.91, 0.89, 0.85},
	geometry.PatchBevelFront:   {0.85, 0.83, 0.78},
	geometry.PatchBevelBack:    {0.85, 0.83, 0.78},
	geometry.PatchEndFront:     {0.88, 0.85, 0.79},
	geometry.PatchEndBack:      {0.88, 0.85, 0.79},
	geometry.PatchCoreOuter:    {0.69, 0.55, 0.34},
	geometry.PatchCoreInner:    {0.42, 0.33, 0.20},
	geometry.PatchCoreEndFront: {0.63, 0.50, 0.31},
	geometry.PatchCoreEndBack:  {0.63, 0.50, 0.31},
}

var defaultPatchColor = rgb{0.8, 0.8, 0.8}

// lightDir is the fixed key light, normalized at init.
var lightDir = geometry.Vec3{X: 0.35, Y: 0.8, Z: 0.45}.Normalized()

const (
	ambient = 0.35
	diffuse = 0.65
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width      int
	height     int
	camera     Camera
	background string
}

// WithSize sets the viewport size in pixels.
func WithSize(width, height int) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithCamera sets the orbit camera.
func WithCamera(c Camera) SVGOption {
	return func(r *svgRenderer) { r.camera = c }
}

// WithBackground sets the background fill (any SVG color); empty leaves
// the canvas transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// face is one projected triangle ready for emission.
type face struct {
	x     [3]float32
	y     [3]float32
	depth float32
	color rgb
}

// RenderSVG draws the scene as flat-shaded polygons, farthest first. The
// output is deterministic for a given scene and options. A released or
// empty scene yields a valid SVG with only the background.
func RenderSVG(s *pack.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{
		width:  DefaultWidth,
		height: DefaultHeight,
		camera: DefaultCamera(),
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", r.width, r.height, r.background)
	}

	faces := projectScene(s, r.camera, r.width, r.height)
	// Painter's algorithm: farthest faces first.
	slices.SortFunc(faces, func(a, b face) int {
		return cmp.Compare(b.depth, a.depth)
	})
	for _, f := range faces {
		fmt.Fprintf(&buf, `  <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"/>`+"\n",
			f.x[0], f.y[0], f.x[1], f.y[1], f.x[2], f.y[2], f.color.hex())
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// projectScene transforms, culls, shades, and projects every instanced
// triangle of the scene.
func projectScene(s *pack.Scene, cam Camera, width, height int) []face {
	if s == nil || s.Released() || s.Roll == nil {
		return nil
	}

	v := newView(cam, sceneRadius(s), width, height)

	var faces []face
	for _, inst := range s.Instances {
		offset := inst.Placement.Position
		for _, patch := range inst.Geometry.Patches() {
			base, ok := patchColors[patch.Name]
			if !ok {
				base = defaultPatchColor
			}
			appendPatchFaces(&faces, patch, offset, base, v)
		}
	}
	return faces
}

func appendPatchFaces(faces *[]face, patch *geometry.Mesh, offset geometry.Vec3, base rgb, v view) {
	for i := 0; i+2 < len(patch.Indices); i += 3 {
		ia, ib, ic := patch.Indices[i], patch.Indices[i+1], patch.Indices[i+2]
		a := patch.Positions[ia].Add(offset)
		b := patch.Positions[ib].Add(offset)
		c := patch.Positions[ic].Add(offset)

		// Geometric face normal, oriented to agree with the authored
		// vertex normals (the bore surfaces face inward on purpose).
		n := b.Sub(a).Cross(c.Sub(a)).Normalized()
		if n.Dot(patch.Normals[ia]) < 0 {
			n = n.Negated()
		}

		centroid := a.Add(b).Add(c).Scale(1.0 / 3.0)
		toEye := v.eye.Sub(centroid)
		if n.Dot(toEye) <= 0 {
			continue // back face
		}

		ax, ay, ad, ok1 := v.project(a)
		bx, by, bd, ok2 := v.project(b)
		cx, cy, cd, ok3 := v.project(c)
		if !ok1 || !ok2 || !ok3 {
			continue
		}

		shade := ambient + diffuse*math32.Max(0, n.Dot(lightDir))
		*faces = append(*faces, face{
			x:     [3]float32{ax, bx, cx},
			y:     [3]float32{ay, by, cy},
			depth: (ad + bd + cd) / 3,
			color: base.scale(shade),
		})
	}
}

// sceneRadius returns the bounding-sphere radius of the full pack: the
// farthest placement plus the roll's own bounding radius.
func sceneRadius(s *pack.Scene) float32 {
	var rollRadius float32
	for _, patch := range s.Roll.Patches() {
		lo, hi := patch.Bounds()
		rollRadius = math32.Max(rollRadius, math32.Max(lo.Length(), hi.Length()))
	}

	var maxDist float32
	for _, p := range s.Placements {
		maxDist = math32.Max(maxDist, p.Position.Length())
	}
	return maxDist + rollRadius
}
