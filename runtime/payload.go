package runtime

// UndocumentedResponse is the payload of the catch-all response variant: the
// raw status code plus the body bytes, untouched.
type UndocumentedResponse struct {
	Status  int
	Payload []byte
}

// OtherContent is the payload of the catch-all body variant: the raw content
// type plus the body bytes, untouched.
type OtherContent struct {
	ContentType string
	Payload     []byte
}
