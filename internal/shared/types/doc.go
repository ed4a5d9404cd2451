// Package types provides shared data structures for the PiP coordination service.
//
// This package defines core types used across all service components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - Rect, Size: window-space geometry
//   - SessionState: PiP session lifecycle enum
//   - View: host-reported view geometry
//   - Stats: session manager statistics
//
// Wire Types:
//   - WSMessage: WebSocket communication with the host shell
//   - StartRequest, AnchorRequest, ContentRequest: HTTP command payloads
package types
