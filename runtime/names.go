package runtime

import (
	"net/http"
	"strconv"
)

// StatusName discriminates the variants of a generated response sum. Every
// documented status code maps to exactly one StatusName; NameUndocumented
// tags the catch-all variant.
type StatusName string

// ContentToken discriminates the variants of a generated body sum. Only
// well-known content types have tokens; TokenOther tags the catch-all
// variant carrying the raw content type.
type ContentToken string

// Catch-all discriminants. They are never synthesized an accessor for and
// appear only as the Actual side of a MismatchError.
const (
	NameUndocumented StatusName   = "undocumented"
	TokenOther       ContentToken = "other"
)

var statusNames = map[int]StatusName{
	http.StatusOK:                      "ok",
	http.StatusCreated:                 "created",
	http.StatusAccepted:                "accepted",
	http.StatusNoContent:               "noContent",
	http.StatusResetContent:            "resetContent",
	http.StatusPartialContent:          "partialContent",
	http.StatusMultipleChoices:         "multipleChoices",
	http.StatusMovedPermanently:        "movedPermanently",
	http.StatusFound:                   "found",
	http.StatusSeeOther:                "seeOther",
	http.StatusNotModified:             "notModified",
	http.StatusTemporaryRedirect:       "temporaryRedirect",
	http.StatusPermanentRedirect:       "permanentRedirect",
	http.StatusBadRequest:              "badRequest",
	http.StatusUnauthorized:            "unauthorized",
	http.StatusPaymentRequired:         "paymentRequired",
	http.StatusForbidden:               "forbidden",
	http.StatusNotFound:                "notFound",
	http.StatusMethodNotAllowed:        "methodNotAllowed",
	http.StatusNotAcceptable:           "notAcceptable",
	http.StatusRequestTimeout:          "requestTimeout",
	http.StatusConflict:                "conflict",
	http.StatusGone:                    "gone",
	http.StatusLengthRequired:          "lengthRequired",
	http.StatusPreconditionFailed:      "preconditionFailed",
	http.StatusRequestEntityTooLarge:   "contentTooLarge",
	http.StatusRequestURITooLong:       "uriTooLong",
	http.StatusUnsupportedMediaType:    "unsupportedMediaType",
	http.StatusUnprocessableEntity:     "unprocessableContent",
	http.StatusUpgradeRequired:         "upgradeRequired",
	http.StatusPreconditionRequired:    "preconditionRequired",
	http.StatusTooManyRequests:         "tooManyRequests",
	http.StatusInternalServerError:     "internalServerError",
	http.StatusNotImplemented:          "notImplemented",
	http.StatusBadGateway:              "badGateway",
	http.StatusServiceUnavailable:      "serviceUnavailable",
	http.StatusGatewayTimeout:          "gatewayTimeout",
	http.StatusHTTPVersionNotSupported: "httpVersionNotSupported",
}

// One token per content type and one content type per token, so two
// documented contents of a body can never collide on an accessor name.
var contentTokens = map[string]ContentToken{
	"application/json":                  "json",
	"text/plain":                        "text",
	"application/xml":                   "xml",
	"text/html":                         "html",
	"application/octet-stream":          "binary",
	"application/x-www-form-urlencoded": "form",
	"multipart/form-data":               "multipart",
	"application/yaml":                  "yaml",
	"text/csv":                          "csv",
}

// StatusNameFor returns the stable discriminant for a documented status
// code. Codes outside the well-known table get a deterministic numeric
// fallback so every documented variant stays addressable.
func StatusNameFor(code int) StatusName {
	if name, ok := statusNames[code]; ok {
		return name
	}
	return StatusName("status" + strconv.Itoa(code))
}

// ContentTokenFor returns the discriminant for a content type and whether
// the content type is in the well-known table. Lookup is exact-match; no
// parameter stripping or wildcard matching is attempted.
func ContentTokenFor(contentType string) (ContentToken, bool) {
	token, ok := contentTokens[contentType]
	return token, ok
}
