// Package storage archives dispatched letters in S3-compatible object storage.
//
// Archive implements dispatch.Archiver. Each letter is written once under
//
//	{prefix}/{yyyy}/{mm}/{dd}/{reference}/{id}.pdf
//
// with the reference in the object metadata, so several letters sent for the
// same reference never overwrite each other. Signed download URLs are available
// through URL.
//
//	archive, err := storage.New(storage.Config{
//		Bucket:    "letters",
//		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
//		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
//		Endpoint:  "http://localhost:9000",
//		PathStyle: true,
//	})
package storage
