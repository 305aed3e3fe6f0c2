// Package pkg provides the core libraries for Rollpack scene generation.
//
// # Overview
//
// Rollpack turns a handful of pack parameters into a 3D scene of palletized
// cylindrical paper rolls and renders it. The pkg directory is organized
// into five main areas:
//
//  1. [pack] - Domain logic (configuration, layout, scene assembly)
//  2. [geometry] - Triangle meshes and the roll surface builder
//  3. [render] - Artifact generation (SVG, PNG, PDF, JSON)
//  4. [pipeline] - Orchestration (assemble → render) with caching
//  5. [cache] - Artifact cache backends (file, Redis, null)
//
// # Architecture
//
// The typical data flow through Rollpack:
//
//	Raw parameters (flags, TOML, query strings)
//	         ↓
//	    [pack] package (normalize config, compute layout, assemble scene)
//	         ↓
//	    [geometry] package (shared roll mesh, one per scene)
//	         ↓
//	    [render] package (project + shade the instanced triangles)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Assemble a pack and render it:
//
//	import (
//	    "os"
//
//	    "github.com/packlab/rollpack/pkg/pack"
//	    "github.com/packlab/rollpack/pkg/render"
//	)
//
//	scene := pack.Assemble(pack.DefaultConfig())
//	defer scene.Release()
//	os.WriteFile("pack.svg", render.RenderSVG(scene), 0o644)
//
// Configuration never fails: missing or hostile inputs fall back to field
// defaults, so every request produces a scene.
package pkg
