package middleware

import (
	"regexp"
	"time"
)

type AuthenticationOptions struct {
	//How long presigned urls can be expired before denying them
	Leeway time.Duration

	//Query parameters that intermediaries add and that must be dropped
	//before verifying a presigned url
	RemovableQueryParams []*regexp.Regexp
}

var defaultAuthenticationOptions = &AuthenticationOptions{}
