package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyPost indicates a title or content that is blank after trimming.
	ErrEmptyPost = errors.New("please fill in both title and content")

	// ErrTitleTooLong indicates the title exceeds MaxTitleLength characters.
	ErrTitleTooLong = errors.New("title exceeds 200 characters")

	// ErrContentTooLong indicates the content exceeds MaxContentLength characters.
	ErrContentTooLong = errors.New("content exceeds 5000 characters")

	// ErrImageType indicates an image outside the allowed content types.
	ErrImageType = errors.New("invalid file type: only JPEG, PNG, GIF, and WebP are allowed")

	// ErrImageTooLarge indicates an image over MaxImageBytes.
	ErrImageTooLarge = errors.New("file too large: max size is 5MB")

	// ErrNoImage indicates an upload request without a file.
	ErrNoImage = errors.New("no file provided")

	// ErrNotConfigured indicates the deployment is missing required configuration.
	ErrNotConfigured = errors.New("not configured")

	// ErrNotFound indicates the requested row does not exist or is not visible.
	ErrNotFound = errors.New("not found")

	// ErrAuthorRequired indicates sign-up without choosing who you are.
	ErrAuthorRequired = errors.New("please select who you are")

	// ErrPasswordMismatch indicates the password confirmation does not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Kind classifies an error for presentation.
type Kind int

const (
	// KindUpstream covers network and backend failures. Transient, user retries.
	KindUpstream Kind = iota
	// KindValidation covers local checks that never reach the network.
	KindValidation
	// KindUnauthorized covers rejected or missing credentials.
	KindUnauthorized
	// KindConfig covers a misconfigured deployment.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindConfig:
		return "config"
	default:
		return "upstream"
	}
}

var validationErrors = []error{
	ErrEmptyPost,
	ErrTitleTooLong,
	ErrContentTooLong,
	ErrImageType,
	ErrImageTooLarge,
	ErrNoImage,
	ErrAuthorRequired,
	ErrPasswordMismatch,
}

// KindOf maps err onto the error taxonomy. Anything unrecognised is upstream.
func KindOf(err error) Kind {
	if err == nil {
		return KindUpstream
	}
	if errors.Is(err, ErrNotConfigured) {
		return KindConfig
	}
	if errors.Is(err, ErrUnauthorized) {
		return KindUnauthorized
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return KindValidation
		}
	}
	return KindUpstream
}
