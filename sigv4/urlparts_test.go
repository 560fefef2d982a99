package sigv4

import "testing"

func TestSplitURL(t *testing.T) {
	var testCases = []struct {
		description string
		url         string
		expected    URLParts
	}{
		{
			"api gateway style url",
			"https://abc123.execute-api.us-east-1.amazonaws.com/prod/items",
			URLParts{Host: "abc123.execute-api.us-east-1.amazonaws.com", Path: "/prod/items", RawQuery: ""},
		},
		{
			"url with query string",
			"https://iam.amazonaws.com/?Action=ListUsers&Version=2010-05-08",
			URLParts{Host: "iam.amazonaws.com", Path: "/", RawQuery: "Action=ListUsers&Version=2010-05-08"},
		},
		{
			"url without path",
			"https://example.amazonaws.com",
			URLParts{Host: "example.amazonaws.com", Path: "", RawQuery: ""},
		},
		{
			"host casing is preserved",
			"https://Example.Amazonaws.COM/path",
			URLParts{Host: "Example.Amazonaws.COM", Path: "/path", RawQuery: ""},
		},
		{
			"no scheme degrades to best effort",
			"example.com/a/b?x=1",
			URLParts{Host: "example.com", Path: "/a/b", RawQuery: "x=1"},
		},
	}

	for _, tc := range testCases {
		got := SplitURL(tc.url)
		if got != tc.expected {
			t.Errorf("%s: expected %+v got %+v", tc.description, tc.expected, got)
		}
	}
}

func TestCanonicalURILowerCasesAndEncodes(t *testing.T) {
	//GIVEN a path with upper case characters and a space
	parts := URLParts{Path: "/Prod/My Items"}

	//WHEN canonicalizing the URI
	got := parts.CanonicalURI()

	//THEN the path is lower-cased and unsafe characters are escaped while
	//reserved ones like the path separator stay put
	if got != "/prod/my%20items" {
		t.Errorf("expected /prod/my%%20items got %s", got)
	}
}

func TestCanonicalURIEmptyPathStaysEmpty(t *testing.T) {
	//GIVEN a url without any path segment
	parts := SplitURL("https://example.amazonaws.com")

	//WHEN canonicalizing the URI
	got := parts.CanonicalURI()

	//THEN no trailing slash is forced upon it
	if got != "" {
		t.Errorf("expected empty canonical URI got %q", got)
	}
}
