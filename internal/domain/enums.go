package domain

// DownloadReferenceKind describes how a DownloadReference was produced.
type DownloadReferenceKind string

const (
	// DownloadSigned is a short-lived presigned URL.
	DownloadSigned DownloadReferenceKind = "signed"
	// DownloadPublic is a stable CDN/public URL with no expiry.
	DownloadPublic DownloadReferenceKind = "public"
	// DownloadRedirect points at this service's own download endpoint,
	// which signs a fresh URL on each visit.
	DownloadRedirect DownloadReferenceKind = "redirect"
)
