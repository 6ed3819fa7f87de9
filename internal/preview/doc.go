// Package preview serves a generated site directory over HTTP for local
// review. Dot-files such as the build lock are never served.
package preview
