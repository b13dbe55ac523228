package cleanup

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases scheme and host", "HTTPS://Example.COM/Path", "https://example.com/Path"},
		{"strips fragment", "https://example.com/a#section", "https://example.com/a"},
		{"strips utm params", "https://example.com/a?utm_source=x&utm_medium=y&id=7", "https://example.com/a?id=7"},
		{"strips trailing slash", "https://example.com/a/", "https://example.com/a"},
		{"bare host trailing slash", "https://example.com/", "https://example.com"},
		{"already canonical", "https://example.com/a?id=7", "https://example.com/a?id=7"},
		{"discord ref untouched", "123456:789012:345678", "123456:789012:345678"},
		{"vault path untouched", "Inbox/idea.md", "Inbox/idea.md"},
		{"non-web scheme untouched", "ftp://example.com/a/", "ftp://example.com/a/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonicalize(tt.in); got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	refs := []string{
		"HTTPS://Example.COM/Path/?utm_source=x#frag",
		"https://example.com/a?b=1&a=2",
		"chan:msg:user",
	}
	for _, ref := range refs {
		once := Canonicalize(ref)
		if twice := Canonicalize(once); twice != once {
			t.Errorf("not idempotent: %q -> %q -> %q", ref, once, twice)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://example.com/some/path", "https-example-com-some-path"},
		{"UPPER case!!", "upper-case"},
		{"", "source"},
		{"---", "source"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
