package youtube

import "testing"

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=HNpYAz_I4yY", "HNpYAz_I4yY"},
		{"https://www.youtube.com/watch?v=HNpYAz_I4yY&t=815s", "HNpYAz_I4yY"},
		{"https://youtu.be/HNpYAz_I4yY", "HNpYAz_I4yY"},
		{"https://www.youtube.com/embed/HNpYAz_I4yY", "HNpYAz_I4yY"},
		{"not a url", ""},
		{"https://www.youtube.com/watch?v=short", ""},
	}
	for _, tc := range cases {
		if got := ExtractVideoID(tc.url); got != tc.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
