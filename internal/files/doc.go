// Package files discovers measurement files on disk: logger tables,
// flux-processor exports, and the candidate lists the merger CLI builds
// from them. Which files belong together is decided by the naming
// convention, not by file contents.
package files
