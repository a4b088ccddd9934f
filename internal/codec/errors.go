package codec

import "errors"

var (
	// ErrMalformedField is returned by [Field.Decode] when a value classified
	// as legacy or zero-knowledge cannot be split into valid components.
	ErrMalformedField = errors.New("malformed encoded field")

	// ErrNotEncrypted is returned by [Field.Decode] for plaintext fields.
	ErrNotEncrypted = errors.New("field is not encrypted")

	// ErrClassificationAmbiguous marks a defect: a constructed field whose
	// encoding re-classifies to a different format than the one it was
	// built as.
	ErrClassificationAmbiguous = errors.New("field classification is ambiguous")

	// ErrInvalidIVLength is returned by the constructors when the IV is not
	// exactly [IVSize] bytes.
	ErrInvalidIVLength = errors.New("initialization vector must be 12 bytes")
)
