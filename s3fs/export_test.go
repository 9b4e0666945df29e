package s3fs

// NewUnprobedFS builds an FS without the bucket probe so path handling can
// be covered without a live server.
var NewUnprobedFS = newFS
