package authtypes

const L_AUTH_TYPE = "AuthType"

type AuthType int

const (
	AuthTypeUnknown AuthType = iota
	AuthTypeNone
	AuthTypeQueryString
	AuthTypeAuthHeader
)

func (t AuthType) String() string {
	switch t {
	case AuthTypeNone:
		return "None"
	case AuthTypeQueryString:
		return "QueryString"
	case AuthTypeAuthHeader:
		return "AuthHeader"
	default:
		return "Unknown"
	}
}
