// Package s3 publishes written map files to an S3-compatible bucket
// (AWS S3 or MinIO) so that other robots and consoles can fetch them.
//
// Objects are keyed by prefix plus the map file's base name. The fingerprint
// of the published version travels in the object metadata.
package s3
