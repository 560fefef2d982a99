package sigv4

import (
	"strings"
	"time"

	"github.com/fedsign/fedsign/constants"
)

// SigningContext pins down the time-derived parts of one signing operation.
// It must be created exactly once per operation and passed to every stage so
// that the X-Amz-Date header, the string to sign and the credential scope all
// agree on the same instant. Deriving the time twice within one operation is
// a correctness bug: AWS rejects signatures whose timestamp does not match
// the declared one.
type SigningContext struct {
	//AmzDate is the full timestamp in the format YYYYMMDD'T'HHMMSS'Z'
	AmzDate string

	//DateStamp is the date-only portion in the format YYYYMMDD
	DateStamp string

	Region  string
	Service string
}

// NewSigningContext captures t (converted to UTC) for a region/service pair.
func NewSigningContext(t time.Time, region, service string) SigningContext {
	utc := t.UTC()
	return SigningContext{
		AmzDate:   utc.Format(constants.TimeFormat),
		DateStamp: utc.Format(constants.ShortTimeFormat),
		Region:    region,
		Service:   service,
	}
}

// CredentialScope returns <date>/<region>/<service>/aws4_request
func (sc SigningContext) CredentialScope() string {
	return strings.Join([]string{
		sc.DateStamp,
		sc.Region,
		sc.Service,
		constants.SignRequestSuffix,
	}, "/")
}

//Convert a value like X-Amz-Date=20240914T190903Z back to a time.Time
func XAmzDateToTime(xAmzDate string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, xAmzDate)
}
