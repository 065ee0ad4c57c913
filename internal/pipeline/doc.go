// Package pipeline builds the browser-side inputs of a diagram render.
//
// This package handles the stages that run before the browser is involved:
//   - Mermaid fence extraction from Markdown documents via Goldmark
//   - HTML document generation around a diagram source
//
// Browser automation (navigation, readiness polling, measurement and
// screenshots) is handled separately by the root mmd2png package using
// headless Chrome (go-rod). This separation keeps the pipeline focused on
// document content, while rendering handles layout and capture concerns.
package pipeline
