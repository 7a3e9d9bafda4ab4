// Package thumbnail downloads concert images and writes small local copies.
//
// Each concert gets one JPEG named after its date, venue and title. A file
// that already exists is reused without fetching the image again, so only
// new concerts cost a download on later runs. After Make the concert's
// ImgURL points at the local copy.
package thumbnail
