// Package render turns computed layouts into files.
//
// The matrix renderers live in [sink]; [nodelink] draws the raw node/edge
// graph with Graphviz. This package holds what both share: conversion of
// SVG to PDF and PNG through the external rsvg-convert tool.
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2)
//
// When rsvg-convert is missing the converters fail with
// [errors.ErrCodeUnsupported]; [Available] checks beforehand.
package render
