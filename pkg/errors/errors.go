package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeInvalidCategory   Code = "INVALID_CATEGORY"
	CodeInvalidLocation   Code = "INVALID_LOCATION"
	CodeNotFound          Code = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeInvalidQuantity   Code = "INVALID_QUANTITY"
	CodeDataIntegrity     Code = "DATA_INTEGRITY"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// Metadata describes how a code surfaces at the terminal.
type Metadata struct {
	PublicMessage  string
	Warning        bool
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeInvalidCategory: {
		PublicMessage:  "unrecognized product category",
		DetailsAllowed: true,
	},
	CodeInvalidLocation: {
		PublicMessage:  "warehouse location not recognized",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		PublicMessage:  "product not found",
		DetailsAllowed: true,
	},
	CodeInsufficientStock: {
		PublicMessage:  "insufficient stock",
		DetailsAllowed: true,
	},
	CodeInvalidQuantity: {
		PublicMessage:  "quantity out of range",
		DetailsAllowed: true,
	},
	CodeDataIntegrity: {
		PublicMessage:  "cart line has no linked product",
		Warning:        true,
		DetailsAllowed: true,
	},
	CodeInternal: {
		PublicMessage: "internal error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
